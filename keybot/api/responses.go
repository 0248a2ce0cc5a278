package api

import (
	"net/http"
	"time"

	"github.com/disgoorg/keybot/internal/domain/giveaway"
	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Error     *Error    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RoundView struct {
	ID        int64      `json:"id"`
	Status    string     `json:"status"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

type StatsView struct {
	Unclaimed   int        `json:"unclaimed"`
	ActiveRound *RoundView `json:"active_round,omitempty"`
}

// ClaimView leaves out the key itself; codes are only ever sent to their owner.
type ClaimView struct {
	Username  string    `json:"username"`
	ClaimedAt time.Time `json:"claimed_at"`
}

type ClaimsView struct {
	RoundID int64       `json:"round_id"`
	Total   int         `json:"total"`
	Claims  []ClaimView `json:"claims"`
}

func SendSuccess(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(Response{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

func SendError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(Response{
		Error:     &Error{Code: code, Message: message},
		Timestamp: time.Now().UTC(),
	})
}

func statusText(code int) string {
	if text := http.StatusText(code); text != "" {
		return text
	}
	return "Error"
}

func roundView(r *giveaway.Round) *RoundView {
	if r == nil {
		return nil
	}
	v := &RoundView{
		ID:        r.ID,
		Status:    string(r.Status),
		StartedAt: r.StartedAt,
	}
	if !r.EndedAt.IsZero() {
		ended := r.EndedAt
		v.EndedAt = &ended
	}
	return v
}

func claimsView(roundID int64, claims []giveaway.Claim) ClaimsView {
	views := make([]ClaimView, 0, len(claims))
	for _, claim := range claims {
		views = append(views, ClaimView{
			Username:  claim.Username,
			ClaimedAt: claim.ClaimedAt,
		})
	}
	return ClaimsView{RoundID: roundID, Total: len(views), Claims: views}
}
