package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	// System errors
	CodeInternalError: "Internal error",
	CodeUnknownError:  "An unknown error occurred",

	// Amount and price encoding
	CodeInvalidAmount: "Amount is negative, zero where disallowed, or not a finite number",
	CodeAmountRange:   "Amount does not fit the ledger integer range",

	// Draft assembly
	CodeDanglingReceipt:  "Flash loan receipt was not consumed by a matching return",
	CodeOutOfOrderHandle: "Handle consumed before it was produced, or consumed twice",
	CodeForeignHandle:    "Handle belongs to a different transaction draft",

	// Depth evaluation and scanning
	CodeInsufficientLiquidity: "Order book depth cannot fill the requested size",
	CodeInvalidOrderBook:      "Order book snapshot is empty or malformed",
	CodeOrderBookFetchFailed:  "Failed to fetch order book snapshot",
	CodeOrderBookStale:        "Order book snapshot is stale",

	// Ledger-reported
	CodeAtomicityViolation: "Ledger rejected the draft: a flash loan was not returned or a slippage floor was breached",
	CodeRiskRatioExceeded:  "Margin operation would breach the collateralization ratio",
	CodeSubmissionFailed:   "Transaction submission failed",

	// WebSocket errors
	CodeWebSocketConnectionError: "WebSocket connection error",
	CodeWebSocketReconnecting:    "WebSocket reconnecting",
	CodeWebSocketClosed:          "WebSocket connection closed",
	CodeWebSocketSendError:       "Failed to send WebSocket message",

	// Circuit breaker errors
	CodeCircuitOpen: "Circuit breaker is open",
}
