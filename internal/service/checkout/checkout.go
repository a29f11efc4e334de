// Package checkout drives a single checkout attempt through
// Idle -> AddressPending -> AddressVerified -> Accepted | Rejected.
// Each transition is one synchronous decision; nothing here retries.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tienda/internal/logging"
	"tienda/internal/models"
	"tienda/internal/service/delivery"
	"tienda/internal/service/pricing"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrAddressRequired = errors.New("address required")
	ErrInvalidState    = errors.New("invalid checkout state")
)

type State int

const (
	StateIdle State = iota
	StateAddressPending
	StateAddressVerified
	StateAccepted
	StateRejected
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAddressPending:
		return "address_pending"
	case StateAddressVerified:
		return "address_verified"
	case StateAccepted:
		return "accepted"
	case StateRejected:
		return "rejected"
	}
	return "unknown"
}

type CartLedger interface {
	List(ctx context.Context, userID uint) ([]models.CartItem, error)
	Clear(ctx context.Context, userID uint) error
}

type Geocoder interface {
	Geocode(ctx context.Context, address string) (delivery.Coordinate, string, error)
}

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type Config struct {
	Store         delivery.Coordinate
	MaxDistanceKm float64
	Pricing       pricing.Config
}

type Orchestrator struct {
	Cart   CartLedger
	Geo    Geocoder
	Events Publisher
	Config Config

	// Now is the clock for the availability window; tests override it.
	Now func() time.Time
}

// Attempt is one in-flight checkout for one user.
type Attempt struct {
	state   State
	userID  uint
	items   []models.CartItem
	coord   delivery.Coordinate
	address string
}

func (a *Attempt) State() State { return a.state }

type Receipt struct {
	ID      uuid.UUID       `json:"id"`
	UserID  uint            `json:"user_id"`
	Summary pricing.Summary `json:"summary"`
	Check   delivery.Check  `json:"delivery_check"`
	Address string          `json:"address,omitempty"`
	Created time.Time       `json:"created_at"`
}

// Rejection is a normal outcome, not an error: the cart is left intact
// so the user can retry with a different address.
type Rejection struct {
	Reason  string          `json:"reason"`
	Summary pricing.Summary `json:"summary"`
	Check   delivery.Check  `json:"delivery_check"`
}

// Begin opens a checkout attempt over the user's current cart.
func (o *Orchestrator) Begin(ctx context.Context, userID uint) (*Attempt, error) {
	items, err := o.Cart.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("user %d: %w", userID, ErrEmptyCart)
	}

	return &Attempt{
		state:  StateAddressPending,
		userID: userID,
		items:  items,
	}, nil
}

// VerifyAddress resolves the delivery coordinate, either supplied
// directly (current-location capture) or geocoded from an address string.
func (o *Orchestrator) VerifyAddress(ctx context.Context, a *Attempt, address string, coord *delivery.Coordinate) error {
	if a.state != StateAddressPending {
		return fmt.Errorf("verify address in state %s: %w", a.state, ErrInvalidState)
	}

	switch {
	case coord != nil:
		a.coord = *coord
		a.address = address
	case address != "":
		if o.Geo == nil {
			return errors.New("geocoder not configured")
		}
		resolved, formatted, err := o.Geo.Geocode(ctx, address)
		if err != nil {
			return err
		}
		a.coord = resolved
		a.address = formatted
	default:
		return ErrAddressRequired
	}

	a.state = StateAddressVerified
	return nil
}

// Finalize accepts or rejects the attempt. On accept the cart is cleared
// first; if the clear fails the attempt stays verified and no receipt is
// produced.
func (o *Orchestrator) Finalize(ctx context.Context, a *Attempt) (*Receipt, *Rejection, error) {
	if a.state != StateAddressVerified {
		return nil, nil, fmt.Errorf("finalize in state %s: %w", a.state, ErrInvalidState)
	}

	check := o.DeliveryCheck(a.coord)
	summary := pricing.Summarize(a.items, o.Config.Pricing)

	if !check.WithinRange {
		a.state = StateRejected
		rejection := &Rejection{
			Reason:  "out_of_delivery_range",
			Summary: summary,
			Check:   check,
		}
		o.publish(ctx, "checkout_rejected", a.userID, map[string]any{
			"type":     "checkout_rejected",
			"user_id":  a.userID,
			"distance": check.DistanceKm,
			"max":      check.MaxDistanceKm,
		})
		return nil, rejection, nil
	}

	if err := o.Cart.Clear(ctx, a.userID); err != nil {
		return nil, nil, fmt.Errorf("clear cart: %w", err)
	}

	a.state = StateAccepted
	receipt := &Receipt{
		ID:      uuid.New(),
		UserID:  a.userID,
		Summary: summary,
		Check:   check,
		Address: a.address,
		Created: o.now(),
	}
	o.publish(ctx, "checkout_accepted", a.userID, map[string]any{
		"type":       "checkout_accepted",
		"receipt_id": receipt.ID.String(),
		"user_id":    a.userID,
		"total":      summary.Total,
	})
	return receipt, nil, nil
}

// DeliveryCheck evaluates the store's delivery rules for a coordinate at
// the orchestrator's clock: distance, range gate, ETA, and availability.
func (o *Orchestrator) DeliveryCheck(coord delivery.Coordinate) delivery.Check {
	check := delivery.CheckArea(coord, o.Config.Store, o.Config.MaxDistanceKm)
	check.Estimate = delivery.EstimateTime(check.DistanceKm)
	check.Available = delivery.AvailableAt(o.now())
	return check
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o *Orchestrator) publish(ctx context.Context, topic string, userID uint, event map[string]any) {
	if o.Events == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := o.Events.PublishEvent(pubCtx, topic, fmt.Sprint(userID), event); err != nil {
		logging.FromContext(ctx).Error("checkout event publish failed", "topic", topic, "error", err)
	}
}
