package i18n

var catalog = map[string]map[string]string{
	LocaleEsES: {
		"error.bad_request":               "Solicitud no válida",
		"error.conflict":                  "El recurso fue modificado por otra operación",
		"error.unauthorized":              "No autenticado",
		"error.forbidden":                 "No tiene permisos para esta acción",
		"error.not_found":                 "Recurso no encontrado",
		"error.internal":                  "Error interno, inténtelo de nuevo",
		"error.too_many_requests":         "Demasiados intentos, espere un momento",
		"error.user_id_invalid":           "Identificador de usuario no válido",
		"error.user_id_type_invalid":      "Tipo de identificador de usuario no válido",
		"error.user_not_found":            "Usuario no encontrado",
		"error.user_disabled":             "La cuenta está deshabilitada",
		"error.email_exists":              "El correo ya está registrado",
		"error.email_invalid":             "Correo no válido",
		"error.login_invalid":             "Correo o contraseña incorrectos",
		"error.password_weak":             "La contraseña no cumple la política de seguridad",
		"error.token_invalid":             "Sesión no válida o caducada",
		"error.cannot_modify_self":        "No puede modificar su propia cuenta de administrador",
		"error.product_not_found":         "Producto no encontrado",
		"error.product_invalid":           "Datos de producto no válidos",
		"error.promo_price_invalid":       "El precio promocional debe ser mayor que 0",
		"error.category_not_found":        "Categoría no encontrada",
		"error.category_invalid":          "Datos de categoría no válidos",
		"error.slug_exists":               "El slug ya existe",
		"error.stock_quantity_invalid":    "La cantidad de stock no puede ser negativa",
		"error.stock_insufficient":        "Stock insuficiente",
		"error.stock_changed":             "El stock cambió durante la compra, revise su carrito",
		"error.cart_item_not_found":       "Artículo del carrito no encontrado",
		"error.cart_quantity_invalid":     "Cantidad no válida",
		"error.cart_invalid":              "El carrito no es válido",
		"error.order_not_found":           "Pedido no encontrado",
		"error.order_status_invalid":      "Estado de pedido no válido",
		"error.order_status_terminal":     "El pedido ya está en un estado final",
		"error.order_cancel_not_allowed":  "Solo se pueden cancelar pedidos pendientes",
		"error.shipping_address_required": "La dirección de envío es obligatoria",

		"error.password_min_length":      "La contraseña debe tener al menos %d caracteres",
		"error.password_require_upper":   "La contraseña debe incluir una mayúscula",
		"error.password_require_lower":   "La contraseña debe incluir una minúscula",
		"error.password_require_number":  "La contraseña debe incluir un número",
		"error.password_require_special": "La contraseña debe incluir un carácter especial",
		"error.rate_limited":             "Demasiados intentos, vuelva a intentarlo en %d segundos",
		"error.rate_limit_unavailable":   "Servicio de acceso no disponible temporalmente",
	},
	LocaleEnUS: {
		"error.bad_request":               "Invalid request",
		"error.conflict":                  "The resource was modified by another operation",
		"error.unauthorized":              "Not authenticated",
		"error.forbidden":                 "You are not allowed to perform this action",
		"error.not_found":                 "Resource not found",
		"error.internal":                  "Internal error, please retry",
		"error.too_many_requests":         "Too many attempts, please wait",
		"error.user_id_invalid":           "Invalid user id",
		"error.user_id_type_invalid":      "Invalid user id type",
		"error.user_not_found":            "User not found",
		"error.user_disabled":             "Account is disabled",
		"error.email_exists":              "Email already registered",
		"error.email_invalid":             "Invalid email",
		"error.login_invalid":             "Wrong email or password",
		"error.password_weak":             "Password does not satisfy the policy",
		"error.token_invalid":             "Invalid or expired session",
		"error.cannot_modify_self":        "You cannot modify your own admin account",
		"error.product_not_found":         "Product not found",
		"error.product_invalid":           "Invalid product data",
		"error.promo_price_invalid":       "Promotional price must be greater than 0",
		"error.category_not_found":        "Category not found",
		"error.category_invalid":          "Invalid category data",
		"error.slug_exists":               "Slug already exists",
		"error.stock_quantity_invalid":    "Stock quantity cannot be negative",
		"error.stock_insufficient":        "Insufficient stock",
		"error.stock_changed":             "Stock changed during checkout, please review your cart",
		"error.cart_item_not_found":       "Cart item not found",
		"error.cart_quantity_invalid":     "Invalid quantity",
		"error.cart_invalid":              "Cart is not valid",
		"error.order_not_found":           "Order not found",
		"error.order_status_invalid":      "Invalid order status",
		"error.order_status_terminal":     "Order is already in a final state",
		"error.order_cancel_not_allowed":  "Only pending orders can be cancelled",
		"error.shipping_address_required": "Shipping address is required",
		"error.password_min_length":       "Password must be at least %d characters long",
		"error.password_require_upper":    "Password must contain an uppercase letter",
		"error.password_require_lower":    "Password must contain a lowercase letter",
		"error.password_require_number":   "Password must contain a digit",
		"error.password_require_special":  "Password must contain a special character",
		"error.rate_limited":              "Too many attempts, retry in %d seconds",
		"error.rate_limit_unavailable":    "Sign-in temporarily unavailable",
	},
}
