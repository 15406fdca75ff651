package shopper

import (
	"context"

	storefront "github.com/goliatone/go-storefront"
	"github.com/goliatone/go-storefront/pkg/activity"
)

// SetUser records the identity reported by the auth provider; nil signs the
// shopper out. Cart, wishlist and orders are left as they are.
func (s *Session) SetUser(ctx context.Context, user *storefront.User) error {
	return s.update(ctx, func(st *ShopperState) ([]activity.Event, error) {
		previous := st.User
		if sameUser(previous, user) {
			return nil, nil
		}
		st.User = user.Clone()

		var events []activity.Event
		if previous != nil {
			input := s.eventInput(st)
			input.ActorID = previous.ID
			events = append(events, activity.BuildUserSignedOutEvent(input))
		}
		if user != nil {
			events = append(events, activity.BuildUserSignedInEvent(s.eventInput(st)))
		}
		return events, nil
	})
}

// User returns the signed-in user, or nil.
func (s *Session) User() *storefront.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.User.Clone()
}

func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.User != nil
}

// Subscribe applies every identity received on auth until the channel is
// closed (returning nil) or ctx is done (returning ctx.Err()).
func (s *Session) Subscribe(ctx context.Context, auth <-chan *storefront.User) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case user, ok := <-auth:
			if !ok {
				return nil
			}
			if err := s.SetUser(ctx, user); err != nil {
				return err
			}
		}
	}
}

// SetSearchQuery stores the header search text for this session only.
func (s *Session) SetSearchQuery(query string) {
	s.mu.Lock()
	s.state.SearchQuery = query
	s.mu.Unlock()
}

func (s *Session) SearchQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.SearchQuery
}

// ToggleDarkMode flips the theme preference and returns the new value.
func (s *Session) ToggleDarkMode(ctx context.Context) (bool, error) {
	var enabled bool
	err := s.update(ctx, func(st *ShopperState) ([]activity.Event, error) {
		st.DarkMode = !st.DarkMode
		enabled = st.DarkMode

		input := s.eventInput(st)
		input.DarkMode = enabled
		return []activity.Event{activity.BuildDarkModeToggledEvent(input)}, nil
	})
	return enabled, err
}

func (s *Session) DarkMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.DarkMode
}

func sameUser(a, b *storefront.User) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
