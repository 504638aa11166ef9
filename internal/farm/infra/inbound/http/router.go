package http

import "github.com/gin-gonic/gin"

// RegisterFarmRoutes monta las rutas de la finca. /health queda fuera del actor.
func RegisterFarmRoutes(r *gin.Engine, handler *FarmHandler) {
	r.Use(RequestID())
	r.GET("/health", handler.Health)

	api := r.Group("/", RequireActor())

	properties := api.Group("/properties")
	{
		properties.POST("", handler.CreateProperty)
		properties.GET("", handler.GetPropertyList)
		properties.GET("/:id", handler.GetProperty)
		properties.PUT("/:id", handler.UpdateProperty)
		properties.POST("/:id/activate", handler.ActivateProperty)
		properties.POST("/:id/deactivate", handler.DeactivateProperty)
		properties.POST("/:id/plots", handler.CreatePlot)
		properties.GET("/:id/plots", handler.ListPlotsFromProperty)
	}

	plots := api.Group("/plots")
	{
		plots.GET("", handler.GetPlotList)
		plots.GET("/:id", handler.GetPlot)
		plots.PUT("/:id", handler.UpdatePlot)
		plots.PATCH("/:id/crop-type", handler.ChangePlotCropType)
		plots.POST("/:id/activate", handler.ActivatePlot)
		plots.POST("/:id/deactivate", handler.DeactivatePlot)
		plots.POST("/:id/sensors", handler.RegisterSensor)
		plots.GET("/:id/sensors", handler.ListSensorsFromPlot)
	}

	sensors := api.Group("/sensors")
	{
		sensors.GET("", handler.GetSensorList)
		sensors.GET("/:id", handler.GetSensor)
		sensors.PATCH("/:id/label", handler.UpdateSensorLabel)
		sensors.PATCH("/:id/status", handler.ChangeSensorStatus)
		sensors.POST("/:id/activate", handler.ActivateSensor)
		sensors.POST("/:id/deactivate", handler.DeactivateSensor)
	}
}
