package utils

import (
	"fmt"
	"reflect"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	zhTranslations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/spf13/viper"
)

var trans ut.Translator

// InitTrans 初始化参数校验错误的翻译器，语言由 server.lang 决定
func InitTrans() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// 错误信息里展示 json tag，而不是 Go 字段名
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return field.Tag.Get("json")
	})

	lang := viper.GetString("server.lang")
	uni := ut.New(en.New(), zh.New(), en.New())

	var found bool
	trans, found = uni.GetTranslator(lang)
	if !found {
		panic(fmt.Errorf("uni.GetTranslator(%s) failed", lang))
	}

	var err error
	switch lang {
	case "zh":
		err = zhTranslations.RegisterDefaultTranslations(v, trans)
	default:
		err = enTranslations.RegisterDefaultTranslations(v, trans)
	}
	if err != nil {
		panic(err.Error())
	}
}

// ParseToValidationError 把 binding 错误转换成可以直接返回给调用方的内容
// 不是校验错误（比如 body 不是合法 JSON）时给一个笼统的提示
func ParseToValidationError(err error) any {
	if v, ok := err.(validator.ValidationErrors); ok {
		return v.Translate(trans)
	}
	return "无效参数"
}
