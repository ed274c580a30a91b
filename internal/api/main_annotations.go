// @title           linkhub API
// @version         1.0
// @description     Private link collections. Register or log in to obtain a session token, then send it as a Bearer token.
// @BasePath        /
// @securityDefinitions.apikey BearerToken
// @in              header
// @name            Authorization
// @description     Type "Bearer" followed by a space and the token returned by /auth/login.
package api
