package main

import "authapi/internal/app"

// @title           Auth API
// @version         1.0
// @description     Регистрация с подтверждением почты, вход по паролю, сброс пароля по коду.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	app.Run()
}
