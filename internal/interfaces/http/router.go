package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/orders"
	"github.com/jhoicas/almacen-api/internal/application/purchases"
	"github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.UseCase
	ProductUC   *usecase.ProductUseCase
	CategoryUC  *usecase.CategoryUseCase
	ClientUC    *usecase.ClientUseCase
	SupplierUC  *usecase.SupplierUseCase
	UserUC      *usecase.UserUseCase
	DashboardUC *usecase.DashboardUseCase
	LocationUC  *usecase.LocationUseCase
	StockUC     *stock.UseCase
	OrderUC     *orders.UseCase
	OrderPDFUC  *orders.PDFUseCase
	PurchaseUC  *purchases.UseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
//
// Reparto de roles:
//   - admin     → todo, incluido borrado de órdenes/compras y gestión de usuarios.
//   - bodeguero → stock, compras y preparación de órdenes.
//   - vendedor  → órdenes de venta y clientes.
//
// Las lecturas quedan abiertas a cualquier usuario autenticado.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	adminOnly := RequireRole(entity.RoleAdmin)
	warehouse := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	sales := RequireRole(entity.RoleAdmin, entity.RoleVendedor)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Group("/auth").Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", dashboardHandler.Summary)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", warehouse, productHandler.Create)
	products.Put("/:id", warehouse, productHandler.Update)
	products.Delete("/:id", warehouse, productHandler.Deactivate)

	// Categories
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", warehouse, categoryHandler.Create)

	// Stock (libro de movimientos + diagnóstico)
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stockGroup.Get("/movements", stockHandler.ListMovements)
	stockGroup.Post("/movements", warehouse, stockHandler.RegisterMovement)
	stockGroup.Post("/transfer", warehouse, stockHandler.Transfer)
	stockGroup.Get("/levels/:id", stockHandler.ProductLevels)
	stockGroup.Get("/locations/:id", stockHandler.LocationStock)
	stockGroup.Get("/reconcile/:id", warehouse, stockHandler.Reconcile)
	stockGroup.Get("/imbalances", warehouse, stockHandler.ListImbalances)

	// Locations (ubicaciones de almacén)
	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Post("/", warehouse, locationHandler.Create)
	locations.Put("/:id", warehouse, locationHandler.Update)
	locations.Delete("/:id", warehouse, locationHandler.Deactivate)

	// Orders (órdenes de venta)
	ordersGroup := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC, deps.OrderPDFUC)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Get("/:id/pdf", orderHandler.PDF)
	ordersGroup.Post("/", sales, orderHandler.Create)
	ordersGroup.Post("/:id/actions", orderHandler.Action)
	ordersGroup.Delete("/:id", adminOnly, orderHandler.Delete)

	// Purchases (compras a proveedores)
	purchasesGroup := protected.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchasesGroup.Get("/", purchaseHandler.List)
	purchasesGroup.Get("/:id", purchaseHandler.GetByID)
	purchasesGroup.Post("/", warehouse, purchaseHandler.Create)
	purchasesGroup.Post("/:id/receive", warehouse, purchaseHandler.Receive)
	purchasesGroup.Post("/:id/cancel", warehouse, purchaseHandler.Cancel)
	purchasesGroup.Delete("/:id", adminOnly, purchaseHandler.Delete)

	// Clients
	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Post("/", sales, clientHandler.Create)
	clients.Put("/:id", sales, clientHandler.Update)
	clients.Delete("/:id", sales, clientHandler.Delete)

	// Suppliers
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Post("/", warehouse, supplierHandler.Create)
	suppliers.Put("/:id", warehouse, supplierHandler.Update)
	suppliers.Delete("/:id", warehouse, supplierHandler.Delete)

	// Users (solo admin)
	users := protected.Group("/users", adminOnly)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Delete("/:id", userHandler.Deactivate)
}
