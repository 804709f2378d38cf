package main

// @title                       Contract Farming API
// @version                     1.0
// @description                 Marketplace connecting farmers and buyers: accounts, crop listings with images and PDF contracts.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token returned by /login
func main() {
	Execute()
}
