package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           replyd API
// @version         1.0
// @description     HTTP API for loading a local GGUF model and generating whole replies.
//
// @contact.name   replyd maintainers
// @contact.url    https://github.com/your-org/replyd
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
