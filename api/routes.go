package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, calls CallService, launcher CallLauncher) {
	router.GET("/health", HealthCheck(calls))

	v1 := router.Group("/v1")
	{
		v1.POST("/calls", HandleLaunch(launcher))
		v1.GET("/calls/:callId", HandleInspect(calls))
		v1.DELETE("/calls/:callId", HandleEnd(calls))

		// Tool callbacks from the voice platform. The call id arrives as a
		// query parameter, the tool arguments as the JSON body.
		v1.POST("/tools/:tool", HandleTool(calls))
	}
}

// NewRouter builds the engine with recovery and request logging.
func NewRouter(calls CallService, launcher CallLauncher) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger())
	SetupRoutes(router, calls, launcher)
	return router
}
