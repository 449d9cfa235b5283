package handler

import (
	"github.com/fundbilling/backend/internal/interfaces/http/router"
)

// IssuanceRoutes creates the route group for bill issuance
func IssuanceRoutes(handler *CreateBillHandler) *router.DomainGroup {
	return router.NewDomainGroup("issuance", "").
		POST("/create_bill", handler.Create)
}

// BillRoutes creates the route group for issued bills
func BillRoutes(handler *BillHandler) *router.DomainGroup {
	group := router.NewDomainGroup("bills", "/bills")

	group.GET("", handler.List)
	group.POST("/sweep_overdue", handler.SweepOverdue)
	group.GET("/:id", handler.GetByID)
	group.PUT("/:id", handler.UpdateStatus)
	group.PATCH("/:id/status", handler.UpdateStatus)
	group.DELETE("/:id", handler.Delete)

	return group
}

// EntityRoutes creates the route group for entities
func EntityRoutes(handler *EntityHandler) *router.DomainGroup {
	return router.NewDomainGroup("entities", "/entities").
		GET("", handler.List).
		POST("", handler.Create).
		GET("/:id", handler.GetByID).
		PUT("/:id", handler.Update).
		DELETE("/:id", handler.Delete)
}

// InvestmentRoutes creates the route group for investments
func InvestmentRoutes(handler *InvestmentHandler) *router.DomainGroup {
	return router.NewDomainGroup("investments", "/investments").
		GET("", handler.List).
		POST("", handler.Create).
		GET("/:id", handler.GetByID).
		PUT("/:id", handler.Update).
		DELETE("/:id", handler.Delete)
}

// CapitalCallRoutes creates the route group for capital calls
func CapitalCallRoutes(handler *CapitalCallHandler) *router.DomainGroup {
	group := router.NewDomainGroup("capital_calls", "/capital_calls")

	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/:id", handler.GetByID)
	group.PUT("/:id", handler.Update)
	group.DELETE("/:id", handler.Delete)
	group.POST("/:id/reconcile", handler.Reconcile)

	return group
}

// SystemRoutes creates the route group for system endpoints
func SystemRoutes(handler *SystemHandler) *router.DomainGroup {
	return router.NewDomainGroup("system", "/system").
		GET("/info", handler.GetSystemInfo).
		GET("/ping", handler.Ping)
}
