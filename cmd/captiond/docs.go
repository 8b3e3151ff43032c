package main

// General API documentation for swaggo.
//
// @title           captiond API
// @version         1.0
// @description     HTTP API routing images and prompts to pre-trained captioning, VQA and text-generation models.
//
// @contact.name   captiond maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
