package handler

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed web/templates/*.html web/static/*
var webFS embed.FS

// LoadTemplates 解析内嵌的页面模板。
func LoadTemplates() (*template.Template, error) {
	return template.ParseFS(webFS, "web/templates/*.html")
}

// StaticFS 返回内嵌的前端静态资源。
func StaticFS() http.FileSystem {
	sub, err := fs.Sub(webFS, "web/static")
	if err != nil {
		// 路径在编译期固定，不会出错
		panic(err)
	}
	return http.FS(sub)
}
