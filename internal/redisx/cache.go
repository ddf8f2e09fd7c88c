package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/go-court-reservations/internal/booking"
)

// Cache wraps the keys the booking flow keeps in Redis. A nil *Cache or one
// without a client is a permanent miss, so callers never branch on Redis.
type Cache struct {
	RDB     *redis.Client
	Service string
}

func (c *Cache) enabled() bool { return c != nil && c.RDB != nil }

func availabilityKey(courtID string, d booking.Date) string {
	return fmt.Sprintf(KeyAvailability, courtID, d)
}

func (c *Cache) GetAvailability(ctx context.Context, courtID string, d booking.Date) (booking.CourtAvailability, bool) {
	if !c.enabled() {
		return booking.CourtAvailability{}, false
	}
	s, err := c.RDB.Get(ctx, availabilityKey(courtID, d)).Result()
	if err != nil {
		return booking.CourtAvailability{}, false
	}
	var out booking.CourtAvailability
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return booking.CourtAvailability{}, false
	}
	return out, true
}

func (c *Cache) SetAvailability(ctx context.Context, a booking.CourtAvailability) error {
	if !c.enabled() {
		return nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return c.RDB.Set(ctx, availabilityKey(a.CourtID, a.Date), b, TTLAvailability).Err()
}

// InvalidateAvailability drops the cached day for one court. A zero date drops
// every cached day of the court.
func (c *Cache) InvalidateAvailability(ctx context.Context, courtID string, d booking.Date) error {
	if !c.enabled() {
		return nil
	}
	if !d.IsZero() {
		return c.RDB.Del(ctx, availabilityKey(courtID, d)).Err()
	}
	iter := c.RDB.Scan(ctx, 0, fmt.Sprintf(KeyAvailability, courtID, "*"), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.RDB.Del(ctx, keys...).Err()
}

// ClaimBooking takes an idempotency key for one booking attempt. When another
// attempt already holds the key, id is the reservation it stored, or empty
// while that attempt is still running. Without Redis or a key every attempt
// claims.
func (c *Cache) ClaimBooking(ctx context.Context, userID, key string) (claimed bool, id string, err error) {
	if !c.enabled() || key == "" {
		return true, "", nil
	}
	k := fmt.Sprintf(KeyIdemReservation, userID, key)
	ok, err := c.RDB.SetNX(ctx, k, idemPending, TTLIdemPending).Result()
	if err != nil {
		return false, "", err
	}
	if ok {
		return true, "", nil
	}
	v, err := c.RDB.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		return false, "", nil
	}
	if err != nil {
		return false, "", err
	}
	if v == idemPending {
		v = ""
	}
	return false, v, nil
}

// ReleaseBooking frees a claimed key after the attempt failed.
func (c *Cache) ReleaseBooking(ctx context.Context, userID, key string) error {
	if !c.enabled() || key == "" {
		return nil
	}
	return c.RDB.Del(ctx, fmt.Sprintf(KeyIdemReservation, userID, key)).Err()
}

// RememberBooking replaces the claim with the reservation id.
func (c *Cache) RememberBooking(ctx context.Context, userID, key, reservationID string) error {
	if !c.enabled() || key == "" {
		return nil
	}
	return c.RDB.Set(ctx, fmt.Sprintf(KeyIdemReservation, userID, key), reservationID, TTLIdempotency).Err()
}

// FirstDelivery marks eventID as seen and reports whether this is the first
// time. Without Redis every delivery counts as the first.
func (c *Cache) FirstDelivery(ctx context.Context, eventID string) (bool, error) {
	if !c.enabled() {
		return true, nil
	}
	ok, err := c.RDB.SetNX(ctx, fmt.Sprintf(KeyDedup, c.Service, eventID), "1", TTLDedup).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

// ForgetDelivery undoes FirstDelivery so a failed event is retried.
func (c *Cache) ForgetDelivery(ctx context.Context, eventID string) error {
	if !c.enabled() {
		return nil
	}
	return c.RDB.Del(ctx, fmt.Sprintf(KeyDedup, c.Service, eventID)).Err()
}
