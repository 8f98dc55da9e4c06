package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the Shulewear API. Enjoy seamless interaction with this API.

The following are the endpoints for this API:

AUTH
- POST "/auth/signup" - Create user account (admin role requires the shop signup code)
- POST "/auth/login" - Access user account
- POST "/auth/verify-email/:activationToken" - Activate user account
- POST "/auth/forgot-password" - Request password reset
- POST "/auth/reset-password/:resetToken" - Reset user password

INVENTORY
- GET "/inventory" - List stock, filter by ?type= and ?schoolId=
- POST "/admin/inventory" - Add an inventory item
- PUT "/admin/inventory/:type/:id" - Update an inventory item
- DELETE "/admin/inventory/:type/:id" - Delete an inventory item
- GET "/admin/inventory/low-stock" - List variants running low
- POST "/admin/inventory/images" - Upload uniform photos
- POST "/admin/inventory/import" - Bulk import from CSV
- GET "/admin/inventory/imports" - List past imports
- GET "/admin/barcode/:code" - Look up a scanned barcode

SCHOOLS
- GET "/schools" - List schools
- GET "/schools/:id" - Get school by ID
- POST "/admin/schools" - Add a school
- PUT "/admin/schools/:id" - Update a school
- DELETE "/admin/schools/:id" - Delete a school (blocked while referenced)

CART
- POST "/cart/items" - Add to cart
- GET "/cart" - View cart
- PATCH "/cart/items/:itemId" - Change quantity
- DELETE "/cart/items/:itemId" - Remove an item
- DELETE "/cart" - Clear cart
- Same routes under "/admin/pos/cart" for the till, plus POST "/admin/pos/checkout"

ORDERS
- POST "/orders" - Place an order
- GET "/orders/:orderId" - Get order by ID
- GET "/users/:userId/orders" - Get orders for a customer
- POST "/orders/:orderId/pay" - Start payment for an order
- GET "/payments/verify/:reference" - Verify a payment with the provider
- GET "/admin/orders" - List all orders
- PATCH "/admin/orders/:orderId/status" - Complete or cancel an order
- DELETE "/admin/orders/:orderId" - Delete an order
- GET "/admin/orders/pending-count" - Count pending orders
- GET "/admin/reports/sales" - Sales report`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}
