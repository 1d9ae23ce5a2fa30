package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	// General validation
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Trading-core error codes
const (
	// Amount and price encoding
	CodeInvalidAmount Code = "INVALID_AMOUNT"
	CodeAmountRange   Code = "AMOUNT_OUT_OF_RANGE"

	// Draft assembly (local, pre-submission programming errors)
	CodeDanglingReceipt  Code = "DANGLING_RECEIPT"
	CodeOutOfOrderHandle Code = "OUT_OF_ORDER_HANDLE"
	CodeForeignHandle    Code = "FOREIGN_HANDLE"

	// Depth evaluation and scanning
	CodeInsufficientLiquidity Code = "INSUFFICIENT_LIQUIDITY"
	CodeInvalidOrderBook      Code = "INVALID_ORDER_BOOK"
	CodeOrderBookFetchFailed  Code = "ORDER_BOOK_FETCH_FAILED"
	CodeOrderBookStale        Code = "ORDER_BOOK_STALE"

	// Ledger-reported, always fatal for the submitted draft
	CodeAtomicityViolation Code = "ATOMICITY_VIOLATION"
	CodeRiskRatioExceeded  Code = "RISK_RATIO_EXCEEDED"
	CodeSubmissionFailed   Code = "SUBMISSION_FAILED"

	// WebSocket errors
	CodeWebSocketConnectionError Code = "WEBSOCKET_CONNECTION_ERROR"
	CodeWebSocketReconnecting    Code = "WEBSOCKET_RECONNECTING"
	CodeWebSocketClosed          Code = "WEBSOCKET_CLOSED"
	CodeWebSocketSendError       Code = "WEBSOCKET_SEND_ERROR"

	// Circuit breaker errors
	CodeCircuitOpen Code = "CIRCUIT_OPEN"
)
