package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/torrico/rollcall/internal/contact"
)

func TestUpsert_CreatesContact(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	c, err := s.Upsert(ctx, createTestPatch("+573001234567", "Juan", "bc-01"))
	if err != nil {
		t.Fatalf("Upsert() failed: %v", err)
	}

	if c.Phone != "573001234567" {
		t.Errorf("phone = %q, want canonical %q", c.Phone, "573001234567")
	}
	if c.SendStatus != contact.StatusPending {
		t.Errorf("send_status = %q, want %q", c.SendStatus, contact.StatusPending)
	}
	if c.CreatedAt == "" || c.UpdatedAt == "" {
		t.Errorf("timestamps not set: created=%q updated=%q", c.CreatedAt, c.UpdatedAt)
	}
}

func TestUpsert_PhoneUniqueness(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	// Same number in three spellings must collapse to one row.
	for _, phone := range []string{"+573001234567", "573001234567", "+57 300 123-4567"} {
		if _, err := s.Upsert(ctx, createTestPatch(phone, "Juan", "bc-01")); err != nil {
			t.Fatalf("Upsert(%q) failed: %v", phone, err)
		}
	}

	_, total, err := s.All(ctx, 10, 0)
	if err != nil {
		t.Fatalf("All() failed: %v", err)
	}
	if total != 1 {
		t.Errorf("total = %d, want 1", total)
	}
}

func TestUpsert_MergeKeepsPopulatedFields(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if _, err := s.Upsert(ctx, contact.Patch{Phone: "+573001234567", Name: "Juan", Modality: "Presencial"}); err != nil {
		t.Fatalf("first Upsert() failed: %v", err)
	}
	// Second write with blank modality must not erase the first.
	got, err := s.Upsert(ctx, contact.Patch{Phone: "+573001234567", Modality: ""})
	if err != nil {
		t.Fatalf("second Upsert() failed: %v", err)
	}

	if got.Name != "Juan" {
		t.Errorf("name = %q, want %q", got.Name, "Juan")
	}
	if got.Modality != "Presencial" {
		t.Errorf("modality = %q, want %q (empty incoming must not blank it)", got.Modality, "Presencial")
	}
}

func TestUpsert_InvalidPhone(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Upsert(context.Background(), contact.Patch{Phone: "not-a-phone", Name: "X"})
	if !errors.Is(err, contact.ErrInvalidPhone) {
		t.Errorf("err = %v, want ErrInvalidPhone", err)
	}
}

func TestUpsert_ConcurrentSamePhone(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if _, err := s.Upsert(ctx, contact.Patch{Phone: "573001111111"}); err != nil {
		t.Fatalf("seed Upsert() failed: %v", err)
	}

	// One writer records the send, another the response, concurrently.
	var wg sync.WaitGroup
	errs := make(chan error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := s.Upsert(ctx, contact.Patch{Phone: "573001111111", SendStatus: contact.StatusSent})
		errs <- err
	}()
	go func() {
		defer wg.Done()
		_, err := s.Upsert(ctx, contact.Patch{Phone: "573001111111", Response: contact.ResponseYes})
		errs <- err
	}()
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent Upsert() failed: %v", err)
		}
	}

	got, err := s.FindByPhone(ctx, "573001111111")
	if err != nil {
		t.Fatalf("FindByPhone() failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("rows = %d, want 1", len(got))
	}
	if got[0].SendStatus != contact.StatusSent {
		t.Errorf("send_status = %q, want %q", got[0].SendStatus, contact.StatusSent)
	}
	if got[0].Response != contact.ResponseYes {
		t.Errorf("response = %q, want %q", got[0].Response, contact.ResponseYes)
	}
}

func TestUpdateField_UnknownField(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if _, err := s.Upsert(ctx, createTestPatch("573001234567", "Juan", "bc-01")); err != nil {
		t.Fatalf("Upsert() failed: %v", err)
	}

	err := s.UpdateField(ctx, "573001234567", "invalid_field", "x")
	if !errors.Is(err, contact.ErrUnknownField) {
		t.Errorf("err = %v, want ErrUnknownField", err)
	}

	// Nothing may have changed.
	got, err := s.FindByPhone(ctx, "573001234567")
	if err != nil || len(got) != 1 {
		t.Fatalf("FindByPhone() failed: %v (rows=%d)", err, len(got))
	}
	if got[0].Name != "Juan" {
		t.Errorf("name = %q, rejected edit must not mutate", got[0].Name)
	}
}

func TestUpdateFields_MixedUnknownFieldChangesNothing(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if _, err := s.Upsert(ctx, createTestPatch("573001234567", "Juan", "bc-01")); err != nil {
		t.Fatalf("Upsert() failed: %v", err)
	}

	err := s.UpdateFields(ctx, "573001234567", map[string]string{
		"name":    "Pedro",
		"no_such": "x",
	})
	if !errors.Is(err, contact.ErrUnknownField) {
		t.Fatalf("err = %v, want ErrUnknownField", err)
	}

	got, _ := s.FindByPhone(ctx, "573001234567")
	if got[0].Name != "Juan" {
		t.Errorf("name = %q, want %q (partial edit must not apply)", got[0].Name, "Juan")
	}
}

func TestUpdateFields_NotFound(t *testing.T) {
	s := createTestStore(t)

	err := s.UpdateFields(context.Background(), "573009999999", map[string]string{"name": "Nadie"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateFields_Applies(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if _, err := s.Upsert(ctx, createTestPatch("573001234567", "Juan", "bc-01")); err != nil {
		t.Fatalf("Upsert() failed: %v", err)
	}

	err := s.UpdateFields(ctx, "+57 300 123 4567", map[string]string{
		"name":     "Juana",
		"response": contact.ResponseNo,
	})
	if err != nil {
		t.Fatalf("UpdateFields() failed: %v", err)
	}

	got, _ := s.FindByPhone(ctx, "573001234567")
	if got[0].Name != "Juana" {
		t.Errorf("name = %q, want %q", got[0].Name, "Juana")
	}
	if got[0].Response != contact.ResponseNo {
		t.Errorf("response = %q, want %q", got[0].Response, contact.ResponseNo)
	}
}

func TestDelete(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if _, err := s.Upsert(ctx, createTestPatch("573001234567", "Juan", "bc-01")); err != nil {
		t.Fatalf("Upsert() failed: %v", err)
	}
	if err := s.Delete(ctx, "+573001234567"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	got, err := s.FindByPhone(ctx, "573001234567")
	if err != nil {
		t.Fatalf("FindByPhone() failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("rows = %d, want 0", len(got))
	}
}

func TestDelete_NotFound(t *testing.T) {
	s := createTestStore(t)

	err := s.Delete(context.Background(), "573009999999")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
