package scheduling

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"admitboard/models"

	"go.uber.org/zap"
)

func newCoordinator(store *memStore, prov *fakeProvisioner) *BookingCoordinator {
	return &BookingCoordinator{
		Locks:       newMemLocker(),
		Slots:       store,
		Interviews:  interviewStore{store},
		Bookings:    store,
		Provisioner: prov,
		Logger:      zap.NewNop(),
		Now:         func() time.Time { return testNow },
	}
}

func seedAvailableSlot(store *memStore, id string) {
	store.slots[id] = models.Slot{
		ID: id, Date: "2024-03-01", Start: 600, End: 630,
		SlotType:   models.SlotTypeTechnicalRound,
		OwnerID:    "U1",
		OwnerName:  "Uma Sharma",
		OwnerEmail: "uma@example.com",
		State:      models.SlotStateAvailable,
	}
}

var bookReq = models.BookingRequest{
	CandidateID:      "C1",
	CandidateName:    "Noor Ali",
	CandidateContact: "noor@example.com",
	CreatedBy:        "admin",
}

func TestBookSuccess(t *testing.T) {
	store := newMemStore()
	seedAvailableSlot(store, "s1")
	prov := &fakeProvisioner{link: "https://meet.example/L1", resourceID: "R1"}
	coord := newCoordinator(store, prov)

	rec, err := coord.Book(context.Background(), "s1", bookReq)
	if err != nil {
		t.Fatalf("Book() error = %v", err)
	}
	if rec.MeetingLink != "https://meet.example/L1" || rec.MeetingResource != "R1" {
		t.Fatalf("record meeting = (%s, %s), want provisioned details", rec.MeetingLink, rec.MeetingResource)
	}
	if rec.Status != models.InterviewStatusScheduled {
		t.Fatalf("record status = %s, want scheduled", rec.Status)
	}
	if rec.SlotType != models.SlotTypeTechnicalRound || rec.OwnerID != "U1" || rec.Date != "2024-03-01" {
		t.Fatalf("record missing denormalized slot details: %+v", rec)
	}

	slot := store.slots["s1"]
	if slot.State != models.SlotStateBooked {
		t.Fatalf("slot state = %s, want booked", slot.State)
	}
	if slot.BookingID != rec.ID {
		t.Fatalf("slot booking id = %s, want %s", slot.BookingID, rec.ID)
	}
	if _, ok := store.interviews[rec.ID]; !ok {
		t.Fatal("interview record not persisted")
	}
}

func TestBookValidatesRequest(t *testing.T) {
	store := newMemStore()
	seedAvailableSlot(store, "s1")
	coord := newCoordinator(store, &fakeProvisioner{link: "L", resourceID: "R"})

	_, err := coord.Book(context.Background(), "s1", models.BookingRequest{CandidateName: "Noor Ali"})
	wantCode(t, err, CodeInvalidInput)
}

func TestBookAlreadyBookedSlot(t *testing.T) {
	store := newMemStore()
	seedAvailableSlot(store, "s1")
	prov := &fakeProvisioner{link: "L1", resourceID: "R1"}
	coord := newCoordinator(store, prov)

	first, err := coord.Book(context.Background(), "s1", bookReq)
	if err != nil {
		t.Fatalf("first Book() error = %v", err)
	}

	second := bookReq
	second.CandidateID = "C2"
	second.CandidateContact = "pat@example.com"
	_, err = coord.Book(context.Background(), "s1", second)
	wantCode(t, err, CodeSlotUnavailable)

	// The losing call must not have touched the winner's state.
	if store.slots["s1"].BookingID != first.ID {
		t.Fatalf("slot booking id changed to %s", store.slots["s1"].BookingID)
	}
	if got := store.interviews[first.ID].CandidateID; got != "C1" {
		t.Fatalf("winner's record candidate = %s, want C1", got)
	}
	if len(store.interviews) != 1 {
		t.Fatalf("interview count = %d, want 1", len(store.interviews))
	}
	// No meeting should have been created for the loser: the re-read
	// rejects before provisioning.
	if prov.createCalls != 1 {
		t.Fatalf("provisioner create calls = %d, want 1", prov.createCalls)
	}
}

func TestBookUnavailableStates(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*memStore)
	}{
		{"missing slot", func(s *memStore) {}},
		{"cancelled slot", func(s *memStore) {
			seedAvailableSlot(s, "s1")
			slot := s.slots["s1"]
			slot.State = models.SlotStateCancelled
			s.slots["s1"] = slot
		}},
		{"expired by clock", func(s *memStore) {
			seedAvailableSlot(s, "s1")
			slot := s.slots["s1"]
			slot.Date = "2024-02-28"
			s.slots["s1"] = slot
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			tt.setup(store)
			prov := &fakeProvisioner{link: "L", resourceID: "R"}
			coord := newCoordinator(store, prov)

			_, err := coord.Book(context.Background(), "s1", bookReq)
			wantCode(t, err, CodeSlotUnavailable)
			if prov.createCalls != 0 {
				t.Fatalf("no meeting should be provisioned, got %d create calls", prov.createCalls)
			}
		})
	}
}

func TestBookProvisioningFailure(t *testing.T) {
	store := newMemStore()
	seedAvailableSlot(store, "s1")
	prov := &fakeProvisioner{createErr: errors.New("calendar API down")}
	coord := newCoordinator(store, prov)

	_, err := coord.Book(context.Background(), "s1", bookReq)
	wantCode(t, err, CodeProvisioningFailed)

	if store.slots["s1"].State != models.SlotStateAvailable {
		t.Fatalf("slot state = %s, want available after provisioning failure", store.slots["s1"].State)
	}
	if len(store.interviews) != 0 {
		t.Fatal("no interview record should exist after provisioning failure")
	}
	if prov.createCalls != 1 {
		t.Fatalf("provisioner create calls = %d, want exactly 1 (no retry)", prov.createCalls)
	}
}

func TestBookPersistFailureRollsBackMeeting(t *testing.T) {
	store := newMemStore()
	seedAvailableSlot(store, "s1")
	store.failPersist = errors.New("write conflict")
	prov := &fakeProvisioner{link: "L2", resourceID: "R2"}
	coord := newCoordinator(store, prov)

	_, err := coord.Book(context.Background(), "s1", bookReq)
	wantCode(t, err, CodeBookingPersistFailed)

	if got := prov.deletedResources(); len(got) != 1 || got[0] != "R2" {
		t.Fatalf("deleted resources = %v, want [R2]", got)
	}
	if store.slots["s1"].State != models.SlotStateAvailable {
		t.Fatalf("slot state = %s, want available after rollback", store.slots["s1"].State)
	}
	if len(store.interviews) != 0 {
		t.Fatal("no interview record should survive a failed persist")
	}
}

func TestBookInconsistentWhenRollbackFails(t *testing.T) {
	store := newMemStore()
	seedAvailableSlot(store, "s1")
	store.failPersist = errors.New("write conflict")
	prov := &fakeProvisioner{link: "L3", resourceID: "R3", deleteErr: errors.New("delete timed out")}
	coord := newCoordinator(store, prov)

	_, err := coord.Book(context.Background(), "s1", bookReq)
	wantCode(t, err, CodeBookingInconsistent)

	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("expected *scheduling.Error, got %T", err)
	}
	if se.ResourceID != "R3" {
		t.Fatalf("inconsistent error resource id = %q, want R3", se.ResourceID)
	}
}

func TestBookConcurrentExactlyOneWinner(t *testing.T) {
	const callers = 16

	store := newMemStore()
	seedAvailableSlot(store, "s1")
	prov := &fakeProvisioner{link: "L1", resourceID: "R1"}
	coord := newCoordinator(store, prov)

	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := bookReq
			req.CandidateID = "C" + string(rune('A'+i))
			_, errs[i] = coord.Book(context.Background(), "s1", req)
		}(i)
	}
	wg.Wait()

	var wins, losses int
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		if code, _ := CodeOf(err); code != CodeSlotUnavailable {
			t.Fatalf("unexpected loser error: %v", err)
		}
		losses++
	}
	if wins != 1 || losses != callers-1 {
		t.Fatalf("wins = %d, losses = %d; want exactly one winner", wins, losses)
	}
	if len(store.interviews) != 1 {
		t.Fatalf("interview count = %d, want 1", len(store.interviews))
	}
	if store.slots["s1"].State != models.SlotStateBooked {
		t.Fatalf("slot state = %s, want booked", store.slots["s1"].State)
	}
}

func TestBookRescheduleCancelsPrior(t *testing.T) {
	store := newMemStore()
	seedAvailableSlot(store, "s1")
	seedAvailableSlot(store, "s2")
	prov := &fakeProvisioner{link: "L1", resourceID: "R1"}
	coord := newCoordinator(store, prov)

	first, err := coord.Book(context.Background(), "s1", bookReq)
	if err != nil {
		t.Fatalf("initial Book() error = %v", err)
	}

	resched := bookReq
	resched.RescheduleOf = first.ID
	rec, err := coord.Book(context.Background(), "s2", resched)
	if err != nil {
		t.Fatalf("reschedule Book() error = %v", err)
	}
	if rec.Status != models.InterviewStatusRescheduled {
		t.Fatalf("new record status = %s, want rescheduled", rec.Status)
	}
	if rec.RescheduleOf != first.ID {
		t.Fatalf("rescheduleOf = %s, want %s", rec.RescheduleOf, first.ID)
	}
	if got := store.interviews[first.ID].Status; got != models.InterviewStatusCancelled {
		t.Fatalf("prior interview status = %s, want cancelled", got)
	}
	// The original slot stays booked; cancelling the interview never
	// reopens the slot.
	if store.slots["s1"].State != models.SlotStateBooked {
		t.Fatalf("original slot state = %s, want booked", store.slots["s1"].State)
	}
}

func TestBookRescheduleSurvivesPriorCancelFailure(t *testing.T) {
	store := newMemStore()
	seedAvailableSlot(store, "s1")
	seedAvailableSlot(store, "s2")
	coord := newCoordinator(store, &fakeProvisioner{link: "L1", resourceID: "R1"})

	first, err := coord.Book(context.Background(), "s1", bookReq)
	if err != nil {
		t.Fatalf("initial Book() error = %v", err)
	}

	// Failing to cancel the prior record must not fail the new booking.
	store.setStatusErr = errors.New("update timed out")
	resched := bookReq
	resched.RescheduleOf = first.ID
	rec, err := coord.Book(context.Background(), "s2", resched)
	if err != nil {
		t.Fatalf("reschedule Book() error = %v", err)
	}
	if store.slots["s2"].BookingID != rec.ID {
		t.Fatalf("new slot booking id = %s, want %s", store.slots["s2"].BookingID, rec.ID)
	}
}

func TestBookRescheduleOfUnknownInterview(t *testing.T) {
	store := newMemStore()
	seedAvailableSlot(store, "s1")
	prov := &fakeProvisioner{link: "L1", resourceID: "R1"}
	coord := newCoordinator(store, prov)

	req := bookReq
	req.RescheduleOf = "nope"
	_, err := coord.Book(context.Background(), "s1", req)
	wantCode(t, err, CodeNotFound)
	if prov.createCalls != 0 {
		t.Fatalf("no meeting should be provisioned, got %d create calls", prov.createCalls)
	}
}

func TestCancelInterview(t *testing.T) {
	store := newMemStore()
	seedAvailableSlot(store, "s1")
	coord := newCoordinator(store, &fakeProvisioner{link: "L1", resourceID: "R1"})

	rec, err := coord.Book(context.Background(), "s1", bookReq)
	if err != nil {
		t.Fatalf("Book() error = %v", err)
	}

	if err := coord.Cancel(context.Background(), rec.ID); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if got := store.interviews[rec.ID].Status; got != models.InterviewStatusCancelled {
		t.Fatalf("interview status = %s, want cancelled", got)
	}
	// Idempotent: a second cancel is a clean no-op.
	if err := coord.Cancel(context.Background(), rec.ID); err != nil {
		t.Fatalf("second Cancel() error = %v", err)
	}
	// The slot does not come back.
	if store.slots["s1"].State != models.SlotStateBooked {
		t.Fatalf("slot state = %s, want booked after interview cancel", store.slots["s1"].State)
	}
}

func TestCancelMissingInterview(t *testing.T) {
	coord := newCoordinator(newMemStore(), &fakeProvisioner{})
	wantCode(t, coord.Cancel(context.Background(), "nope"), CodeNotFound)
}

func TestCompleteInterview(t *testing.T) {
	store := newMemStore()
	seedAvailableSlot(store, "s1")
	coord := newCoordinator(store, &fakeProvisioner{link: "L1", resourceID: "R1"})

	rec, err := coord.Book(context.Background(), "s1", bookReq)
	if err != nil {
		t.Fatalf("Book() error = %v", err)
	}

	if err := coord.Complete(context.Background(), rec.ID); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got := store.interviews[rec.ID].Status; got != models.InterviewStatusCompleted {
		t.Fatalf("interview status = %s, want completed", got)
	}
	// Completing twice is a no-op.
	if err := coord.Complete(context.Background(), rec.ID); err != nil {
		t.Fatalf("second Complete() error = %v", err)
	}
}

func TestCompleteCancelledInterview(t *testing.T) {
	store := newMemStore()
	seedAvailableSlot(store, "s1")
	coord := newCoordinator(store, &fakeProvisioner{link: "L1", resourceID: "R1"})

	rec, err := coord.Book(context.Background(), "s1", bookReq)
	if err != nil {
		t.Fatalf("Book() error = %v", err)
	}
	if err := coord.Cancel(context.Background(), rec.ID); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	wantCode(t, coord.Complete(context.Background(), rec.ID), CodeInvalidState)
}
