package services

import (
	"context"
	"testing"

	"edustaff-backend/internal/apperr"
	"edustaff-backend/internal/hierarchy"
	"edustaff-backend/internal/models"

	"go.uber.org/zap"
)

func newLedgerService(db *memDB, policy hierarchy.Policy) *LedgerService {
	s := NewLedgerService(memLedger{db}, db, policy, zap.NewNop())
	s.now = clock
	return s
}

var admin = hierarchy.Actor{ID: hierarchy.AdminID, Role: hierarchy.Admin}

func TestTransferValidation(t *testing.T) {
	db := newMemDB()
	mgr := seedManager(db, 100)
	svc := newLedgerService(db, fixedFee())

	tests := []struct {
		name string
		req  models.TransferRequest
		want apperr.Kind
	}{
		{"zero amount", models.TransferRequest{ReceiverID: mgr.ID, Amount: 0}, apperr.Validation},
		{"negative amount", models.TransferRequest{ReceiverID: mgr.ID, Amount: -5}, apperr.Validation},
		{"missing receiver", models.TransferRequest{Amount: 10}, apperr.Validation},
		{"unknown receiver", models.TransferRequest{ReceiverID: "M-nobody0", Amount: 10}, apperr.NotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Transfer(context.Background(), admin, &tt.req)
			if apperr.KindOf(err) != tt.want {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if got := db.funds(mgr.ID); got != 100 {
		t.Errorf("funds moved by rejected transfers: %d", got)
	}
}

func TestAdminTransferMintsFunds(t *testing.T) {
	db := newMemDB()
	mgr := seedManager(db, 0)
	svc := newLedgerService(db, fixedFee())

	tr, err := svc.Transfer(context.Background(), admin, &models.TransferRequest{ReceiverID: mgr.ID, Amount: 1000})
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if tr.SenderID != nil {
		t.Errorf("sender = %v, want nil for admin", *tr.SenderID)
	}
	if got := db.funds(mgr.ID); got != 1000 {
		t.Errorf("funds = %d, want 1000", got)
	}

	rec, err := svc.Reconcile(context.Background(), mgr.ID)
	if err != nil || !rec.Balanced || rec.LedgerSum != 1000 {
		t.Errorf("Reconcile = %+v, %v", rec, err)
	}
}

func TestFixedFeeOnlyAdminFunds(t *testing.T) {
	db := newMemDB()
	mgr := seedManager(db, 1000)
	fm := seedFieldManager(db, "FM-ddddddd", mgr.ID, 0)
	svc := newLedgerService(db, fixedFee())

	_, err := svc.Transfer(context.Background(), hierarchy.Actor{ID: mgr.ID, Role: hierarchy.Manager}, &models.TransferRequest{ReceiverID: fm.ID, Amount: 10})
	if apperr.KindOf(err) != apperr.Forbidden {
		t.Fatalf("err = %v, want forbidden", err)
	}
}

func TestTreeGatedTransfer(t *testing.T) {
	db := newMemDB()
	mgr := seedManager(db, 100)
	own := seedFieldManager(db, "FM-own0000", mgr.ID, 0)
	other := seedFieldManager(db, "FM-other00", "M-someone", 0)
	svc := newLedgerService(db, treeGated())
	actor := hierarchy.Actor{ID: mgr.ID, Role: hierarchy.Manager}

	if _, err := svc.Transfer(context.Background(), actor, &models.TransferRequest{ReceiverID: other.ID, Amount: 10}); apperr.KindOf(err) != apperr.Forbidden {
		t.Errorf("foreign field-manager: err = %v, want forbidden", err)
	}
	if _, err := svc.Transfer(context.Background(), actor, &models.TransferRequest{ReceiverID: own.ID, Amount: 500}); apperr.KindOf(err) != apperr.Validation {
		t.Errorf("overdraw: err = %v, want validation", err)
	}
	if got := db.funds(mgr.ID); got != 100 {
		t.Fatalf("manager funds = %d after rejected transfers", got)
	}

	tr, err := svc.Transfer(context.Background(), actor, &models.TransferRequest{ReceiverID: own.ID, Amount: 60})
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if tr.SenderID == nil || *tr.SenderID != mgr.ID {
		t.Errorf("sender = %v, want %s", tr.SenderID, mgr.ID)
	}
	if db.funds(mgr.ID) != 40 || db.funds(own.ID) != 60 {
		t.Errorf("funds = %d/%d, want 40/60", db.funds(mgr.ID), db.funds(own.ID))
	}

	for _, id := range []string{mgr.ID, own.ID} {
		rec, err := svc.Reconcile(context.Background(), id)
		if err != nil || !rec.Balanced {
			t.Errorf("Reconcile(%s) = %+v, %v", id, rec, err)
		}
	}
}

func TestTransferToSelfRejected(t *testing.T) {
	db := newMemDB()
	mgr := seedManager(db, 100)
	svc := newLedgerService(db, treeGated())

	_, err := svc.Transfer(context.Background(), hierarchy.Actor{ID: mgr.ID, Role: hierarchy.Manager}, &models.TransferRequest{ReceiverID: mgr.ID, Amount: 10})
	if apperr.KindOf(err) != apperr.Validation {
		t.Errorf("err = %v, want validation", err)
	}
}

func TestBalance(t *testing.T) {
	db := newMemDB()
	mgr := seedManager(db, 321)
	svc := newLedgerService(db, fixedFee())

	res, err := svc.Balance(context.Background(), hierarchy.Actor{ID: mgr.ID, Role: hierarchy.Manager})
	if err != nil || res.Status != models.StatusGood || res.Funds == nil || *res.Funds != 321 {
		t.Errorf("Balance = %+v, %v", res, err)
	}

	res, err = svc.Balance(context.Background(), admin)
	if err != nil || res.Status != models.StatusBad {
		t.Errorf("admin Balance = %+v, %v, want bad", res, err)
	}

	if _, err := svc.GetFunds(context.Background(), "M-missing0"); apperr.KindOf(err) != apperr.NotFound {
		t.Errorf("GetFunds missing: err = %v", err)
	}
}
