package payment

import (
	"errors"    // Error construction
	"math/rand" // Randomized mock outcomes
	"sync"      // Guard the shared rand source

	"github.com/google/uuid"        // Payment reference ids
	"github.com/shopspring/decimal" // Exact decimal arithmetic for money
)

// ErrDeclined is returned when the payment provider rejects a charge
var ErrDeclined = errors.New("payment processing failed")

// Charge is the provider's record of an authorized payment
type Charge struct {
	PaymentID string // Provider-side payment reference
	Method    string // Payment method identifier
}

// Gateway is the interface that all payment providers must implement.
// Charge either authorizes the full amount and returns the provider
// reference, or returns ErrDeclined; there is no partial authorization.
type Gateway interface {
	Charge(userID uint, amount decimal.Decimal) (*Charge, error)
}

// MockGateway simulates a payment provider with a 90% success rate. It is
// the only provider in this system; a real integration would implement
// Gateway and be swapped in at wiring time.
type MockGateway struct {
	mu  sync.Mutex // rand.Rand is not safe for concurrent use
	rng *rand.Rand // Seeded source, injectable for deterministic tests
}

// NewMockGateway creates a mock gateway with the given random source
func NewMockGateway(rng *rand.Rand) *MockGateway {
	return &MockGateway{rng: rng}
}

// Charge approves nine out of ten charges and declines the rest
func (g *MockGateway) Charge(userID uint, amount decimal.Decimal) (*Charge, error) {
	g.mu.Lock()
	declined := g.rng.Intn(10) == 0 // 1-in-10 decline
	g.mu.Unlock()
	if declined {
		return nil, ErrDeclined
	}
	return &Charge{
		PaymentID: "mock_" + uuid.NewString(), // Provider reference
		Method:    "mock_payment",             // Mock method marker
	}, nil
}
