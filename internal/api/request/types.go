package request

// RegisterRequest is the request body for registering a user
type RegisterRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password,omitempty"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AddSessionRequest is the request body for recording a poker session.
// Pointer fields are required.
type AddSessionRequest struct {
	Location   string   `json:"location"`
	SmallBlind *float64 `json:"small_blind"`
	BigBlind   *float64 `json:"big_blind"`
	BuyIn      *float64 `json:"buy_in"`
	BuyOut     *float64 `json:"buy_out"`
	Duration   *float64 `json:"duration"`
	DateTime   string   `json:"datetime"`
}

// AddBetRequest is the request body for recording a sports bet
type AddBetRequest struct {
	Sport         string   `json:"sport"`
	PickCount     *float64 `json:"pick_count"`
	BetAmount     *float64 `json:"bet_amount"`
	AmountWonLost *float64 `json:"amount_won_lost"`
	DateTime      string   `json:"datetime"`
}
