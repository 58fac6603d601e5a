package rest

import "github.com/gin-gonic/gin"

// NewApi registers the image and training endpoints under /api
func NewApi(router *gin.Engine, images *ImageHandler, trainings *TrainingHandler) {
	registerValidations()

	imagesV1 := router.Group("api/images")
	{
		imagesV1.POST("", images.CreateImage)
		imagesV1.PUT("", images.UpdateImage)
		imagesV1.GET("", images.GetImages)
		imagesV1.GET("/count", images.CountImages)
		imagesV1.GET("/name/:name", images.GetImageContentByName)
		imagesV1.GET("/:id", images.GetImage)
		imagesV1.GET("/:id/content", images.GetImageContent)
		imagesV1.DELETE("/:id", images.DeleteImage)
	}

	trainingsV1 := router.Group("api/trainings")
	{
		trainingsV1.POST("", trainings.CreateTraining)
		trainingsV1.PUT("", trainings.UpdateTraining)
		trainingsV1.GET("", trainings.GetTrainings)
		trainingsV1.GET("/:id", trainings.GetTraining)
		trainingsV1.DELETE("/:id", trainings.DeleteTraining)
	}
}

// NewManagementApi registers the operational endpoints under /management
func NewManagementApi(router *gin.Engine, db Pinger, metrics gin.HandlerFunc) {
	management := router.Group("management")
	{
		management.GET("/health", Health(db))
		if metrics != nil {
			management.GET("/prometheus", metrics)
		}
	}
}
