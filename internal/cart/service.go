package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	pkgerrors "github.com/asifmahmud/banglahat-backend/pkg/errors"
)

// Store is the subset of the redis client the cart service depends on.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(cartToken string) string
}

// Service manages session carts.
type Service interface {
	// Get loads the cart for a token. A token with no stored cart returns
	// an empty cart, not an error.
	Get(ctx context.Context, token string) (*Cart, error)

	// Add puts a line into the cart. Un-customized lines for a product the
	// cart already holds merge by adding quantities.
	Add(ctx context.Context, token string, line Line) (*Cart, error)

	// UpdateQuantity sets the quantity of a line, clamped to a minimum of 1.
	UpdateQuantity(ctx context.Context, token, lineID string, quantity int) (*Cart, error)

	// Remove drops a line from the cart.
	Remove(ctx context.Context, token, lineID string) (*Cart, error)

	// Clear deletes the stored cart.
	Clear(ctx context.Context, token string) error
}

type service struct {
	store Store
	ttl   time.Duration
}

func NewService(store Store, ttl time.Duration) Service {
	return &service{store: store, ttl: ttl}
}

// NewToken issues a fresh cart token for a new visitor session.
func NewToken() string {
	return uuid.NewString()
}

func (s *service) Get(ctx context.Context, token string) (*Cart, error) {
	raw, err := s.store.Get(ctx, s.store.CartKey(token))
	if errors.Is(err, redis.Nil) {
		return &Cart{Token: token, Lines: []Line{}}, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}

	var c Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decoding cart")
	}
	c.Token = token
	if c.Lines == nil {
		c.Lines = []Line{}
	}
	return &c, nil
}

func (s *service) Add(ctx context.Context, token string, line Line) (*Cart, error) {
	if line.ProductID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "productId is required")
	}
	if line.Quantity < 1 {
		line.Quantity = 1
	}

	c, err := s.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	merged := false
	if line.Customization == nil {
		for i := range c.Lines {
			if c.Lines[i].ProductID == line.ProductID && c.Lines[i].Customization == nil {
				c.Lines[i].Quantity += line.Quantity
				merged = true
				break
			}
		}
	}
	if !merged {
		line.LineID = uuid.NewString()
		c.Lines = append(c.Lines, line)
	}

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) UpdateQuantity(ctx context.Context, token, lineID string, quantity int) (*Cart, error) {
	if quantity < 1 {
		quantity = 1
	}

	c, err := s.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range c.Lines {
		if c.Lines[i].LineID == lineID {
			c.Lines[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Remove(ctx context.Context, token, lineID string) (*Cart, error) {
	c, err := s.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	kept := c.Lines[:0]
	found := false
	for _, line := range c.Lines {
		if line.LineID == lineID {
			found = true
			continue
		}
		kept = append(kept, line)
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	c.Lines = kept

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Clear(ctx context.Context, token string) error {
	if err := s.store.Del(ctx, s.store.CartKey(token)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing cart")
	}
	return nil
}

func (s *service) save(ctx context.Context, c *Cart) error {
	c.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(c)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding cart")
	}
	if err := s.store.Set(ctx, s.store.CartKey(c.Token), string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving cart")
	}
	return nil
}
