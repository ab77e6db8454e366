package constants

// Response messages
const (
	ERROR_INTERNAL_ERROR       = "Internal server error"
	ERROR_INPUT                = "Invalid input"
	ERROR_CREATE               = "Create failed"
	ERROR_EDIT                 = "Update failed"
	ERROR_DELETE               = "Delete failed"
	ERROR_PARSE_DATA_TO_LOCALS = "Failed to read request data"
	DATA_INPUT_IS_NOT_NUMBER   = "Id must be a number"
	MISSING_LOGIN_INPUT        = "Email and password are required"
	INVALID_EMAIL              = "Email does not exist"
	INVALID_PASSWORD           = "Password is incorrect"
	ACCOUNT_NOT_ACTIVE         = "Account is disabled"
	CAN_NOT_HASH_PASSWORD      = "Could not hash password"
	EMAIL_EXISTS               = "Email already exists"
	PHONE_EXISTS               = "Phone number already exists"
	CATEGORY_NAME_EXISTS       = "Category name already exists"
	NOT_PERMISSION             = "You do not have permission"
	NOT_LOGGED_IN              = "Please log in"
	EVENT_NOT_FOUND            = "Event not found"
	VENUE_NOT_FOUND            = "Venue not found"
	CATEGORY_NOT_FOUND         = "Category not found"
	USER_NOT_FOUND             = "User not found"
	ORDER_NOT_FOUND            = "Order not found"
	TICKET_NOT_FOUND           = "Ticket not found"
)
