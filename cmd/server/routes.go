package main

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"merchant-crm.backend/internal/interfaces/http/handlers"
	"merchant-crm.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler       *handlers.AuthHandler
	merchantHandler   *handlers.MerchantHandler
	pipelineHandler   *handlers.PipelineHandler
	onboardingHandler *handlers.OnboardingHandler
	payoutHandler     *handlers.PayoutHandler
	activityHandler   *handlers.ActivityHandler
	authMiddleware    gin.HandlerFunc
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes
		auth := v1.Group("/auth")
		{
			auth.POST("/login", d.authHandler.Login)
			auth.GET("/me", d.authMiddleware, d.authHandler.Me)
		}

		// Merchant routes (protected)
		merchants := v1.Group("/merchants")
		merchants.Use(d.authMiddleware)
		{
			merchants.POST("", d.merchantHandler.CreateMerchant)
			merchants.GET("", d.merchantHandler.ListMerchants)
			merchants.GET("/:merchantId", d.merchantHandler.GetMerchant)
			merchants.PATCH("/:merchantId", d.merchantHandler.UpdateMerchant)
			merchants.PATCH("/:merchantId/assign-rep", middleware.RequireAdmin(), d.merchantHandler.AssignRep)
			merchants.DELETE("/:merchantId", middleware.RequireAdmin(), d.merchantHandler.DeleteMerchant)

			merchants.POST("/:merchantId/activities", d.activityHandler.LogActivity)
			merchants.GET("/:merchantId/activities", d.activityHandler.ListActivities)
		}

		// Pipeline routes (protected)
		pipeline := v1.Group("/pipeline")
		pipeline.Use(d.authMiddleware)
		{
			pipeline.GET("/:merchantId", d.pipelineHandler.GetPipeline)
			pipeline.GET("/:merchantId/history", d.pipelineHandler.GetStageHistory)
			pipeline.PATCH("/:merchantId/stage", middleware.IdempotencyMiddleware(), d.pipelineHandler.TransitionStage)
			pipeline.PATCH("/:merchantId/next-action", d.pipelineHandler.UpdateNextAction)
		}

		// Onboarding routes (protected)
		onboarding := v1.Group("/onboarding")
		onboarding.Use(d.authMiddleware)
		{
			onboarding.GET("/:merchantId", d.onboardingHandler.GetOnboarding)
			onboarding.PATCH("/:merchantId", middleware.IdempotencyMiddleware(), d.onboardingHandler.UpdateRequirements)
			onboarding.PATCH("/:merchantId/status", middleware.RequireAdmin(), d.onboardingHandler.OverrideStatus)
		}

		// Payout ledger routes (protected, read-only)
		payouts := v1.Group("/payouts")
		payouts.Use(d.authMiddleware)
		{
			payouts.GET("", d.payoutHandler.ListPayouts)
			payouts.GET("/merchant/:merchantId", d.payoutHandler.ListMerchantPayouts)
		}
	}
}
