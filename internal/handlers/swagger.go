package handlers

// @title Image Transform API
// @version 1.0
// @description Sends an image and a prompt to a generative image model and returns the generated images

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /api/v1

// @tag.name images
// @tag.description Image transform operations
