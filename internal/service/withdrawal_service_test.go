package service

import (
	"errors"
	"strings"
	"testing"

	"apexmine/internal/domain"
	"apexmine/internal/models"

	"github.com/shopspring/decimal"
)

func cryptoRequest(amount string) WithdrawalRequest {
	return WithdrawalRequest{
		AmountUSD:     decimal.RequireFromString(amount),
		Method:        domain.MethodCrypto,
		WalletAddress: "TXyzWalletAddr123",
	}
}

// paidUser is a tier-2 user with the fee settled and a funded balance.
func paidUser(t *testing.T, e *env, balance string) *models.User {
	t.Helper()
	u := e.newUser(t, func(u *models.User) {
		u.Tier = 2
		u.WithdrawalFeePaid = true
	})
	e.setBalance(t, u.ID, balance)
	return u
}

func TestWithdrawalRequiresFeePaid(t *testing.T) {
	e := newEnv(t)
	u := e.newUser(t, func(u *models.User) { u.Tier = 2 })
	e.setBalance(t, u.ID, "500")

	_, err := e.withdrawal.Request(u.ID, cryptoRequest("50"))
	if !errors.Is(err, domain.ErrNotEligible) {
		t.Fatalf("err = %v, want not eligible", err)
	}
}

func TestFreeTierWithdrawalGate(t *testing.T) {
	e := newEnv(t)
	u := e.newUser(t, func(u *models.User) { u.WithdrawalFeePaid = true })
	e.setBalance(t, u.ID, "99.99")

	_, err := e.withdrawal.Request(u.ID, cryptoRequest("50"))
	if !errors.Is(err, domain.ErrNotEligible) {
		t.Fatalf("below gate: err = %v, want not eligible", err)
	}

	e.setBalance(t, u.ID, "100")
	if _, err := e.withdrawal.Request(u.ID, cryptoRequest("50")); err != nil {
		t.Fatalf("at gate: %v", err)
	}
}

func TestWithdrawalLimits(t *testing.T) {
	e := newEnv(t)
	u := paidUser(t, e, "20000")

	if _, err := e.withdrawal.Request(u.ID, cryptoRequest("9.99")); !errors.Is(err, domain.ErrBelowMinimum) {
		t.Errorf("below min: err = %v, want below minimum", err)
	}
	if _, err := e.withdrawal.Request(u.ID, cryptoRequest("10000.01")); !errors.Is(err, domain.ErrAboveMaximum) {
		t.Errorf("above max: err = %v, want above maximum", err)
	}
	if _, err := e.withdrawal.Request(u.ID, cryptoRequest("10")); err != nil {
		t.Errorf("at min: %v", err)
	}
	if _, err := e.withdrawal.Request(u.ID, cryptoRequest("10000")); err != nil {
		t.Errorf("at max: %v", err)
	}
}

func TestWithdrawalRequestChecksBalanceButDoesNotDebit(t *testing.T) {
	e := newEnv(t)
	u := paidUser(t, e, "50")

	if _, err := e.withdrawal.Request(u.ID, cryptoRequest("60")); !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("over balance: err = %v, want insufficient", err)
	}
	w, err := e.withdrawal.Request(u.ID, cryptoRequest("40"))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if w.Status != domain.StatusPending {
		t.Errorf("status = %s, want pending", w.Status)
	}
	// Still untouched until approval.
	if got := e.reload(t, u.ID); !got.Balance.Equal(mustDec(t, "50")) {
		t.Errorf("balance after request = %s, want 50", got.Balance)
	}
}

func TestWithdrawalTransactionIDFormat(t *testing.T) {
	e := newEnv(t)
	u := paidUser(t, e, "500")

	w, err := e.withdrawal.Request(u.ID, cryptoRequest("50"))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if !strings.HasPrefix(w.TransactionID, "WD-") {
		t.Errorf("transaction id %q missing WD- prefix", w.TransactionID)
	}
	if len(w.TransactionID) != len("WD-")+8+6 {
		t.Errorf("transaction id %q has wrong length", w.TransactionID)
	}
	w2, err := e.withdrawal.Request(u.ID, cryptoRequest("50"))
	if err != nil {
		t.Fatalf("second request: %v", err)
	}
	if w2.TransactionID == w.TransactionID {
		t.Error("transaction ids must be unique")
	}
}

func TestWithdrawalApproveDebitsOnce(t *testing.T) {
	e := newEnv(t)
	u := paidUser(t, e, "50")

	w, err := e.withdrawal.Request(u.ID, cryptoRequest("20"))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	approved, err := e.withdrawal.Approve(w.ID, "0xhash", "paid")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != domain.StatusApproved {
		t.Errorf("status = %s, want approved", approved.Status)
	}
	if approved.ReviewedAt == nil || approved.CompletedAt == nil {
		t.Error("review timestamps not set")
	}
	if got := e.reload(t, u.ID); !got.Balance.Equal(mustDec(t, "30")) {
		t.Errorf("balance = %s, want 30", got.Balance)
	}

	// Second approval must not double-debit.
	if _, err := e.withdrawal.Approve(w.ID, "0xhash", "again"); !errors.Is(err, domain.ErrAlreadyReviewed) {
		t.Fatalf("re-approve: err = %v, want already reviewed", err)
	}
	if got := e.reload(t, u.ID); !got.Balance.Equal(mustDec(t, "30")) {
		t.Errorf("balance after re-approve = %s, want 30", got.Balance)
	}
}

func TestWithdrawalApproveRevalidatesBalance(t *testing.T) {
	e := newEnv(t)
	u := paidUser(t, e, "50")

	w, err := e.withdrawal.Request(u.ID, cryptoRequest("40"))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	// Balance spent between request and approval.
	e.setBalance(t, u.ID, "10")

	if _, err := e.withdrawal.Approve(w.ID, "", ""); !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("approve: err = %v, want insufficient", err)
	}
	// Request stays pending and the remaining balance is untouched.
	got, err := e.withdrawals.GetByID(w.ID)
	if err != nil {
		t.Fatalf("get withdrawal: %v", err)
	}
	if got.Status != domain.StatusPending {
		t.Errorf("status = %s, want pending", got.Status)
	}
	if u := e.reload(t, u.ID); !u.Balance.Equal(mustDec(t, "10")) {
		t.Errorf("balance = %s, want 10", u.Balance)
	}
}

func TestWithdrawalRejectHasNoBalanceEffect(t *testing.T) {
	e := newEnv(t)
	u := paidUser(t, e, "50")

	w, err := e.withdrawal.Request(u.ID, cryptoRequest("20"))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	rejected, err := e.withdrawal.Reject(w.ID, "suspicious")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != domain.StatusRejected {
		t.Errorf("status = %s, want rejected", rejected.Status)
	}
	if got := e.reload(t, u.ID); !got.Balance.Equal(mustDec(t, "50")) {
		t.Errorf("balance = %s, want 50 (nothing was reserved)", got.Balance)
	}
	if _, err := e.withdrawal.Approve(w.ID, "", ""); !errors.Is(err, domain.ErrAlreadyReviewed) {
		t.Errorf("approve after reject: err = %v, want already reviewed", err)
	}
}

func TestWithdrawalProcessingThenApprove(t *testing.T) {
	e := newEnv(t)
	u := paidUser(t, e, "100")

	w, err := e.withdrawal.Request(u.ID, cryptoRequest("30"))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if _, err := e.withdrawal.MarkProcessing(w.ID); err != nil {
		t.Fatalf("processing: %v", err)
	}
	if _, err := e.withdrawal.Approve(w.ID, "0xabc", ""); err != nil {
		t.Fatalf("approve from processing: %v", err)
	}
	if got := e.reload(t, u.ID); !got.Balance.Equal(mustDec(t, "70")) {
		t.Errorf("balance = %s, want 70", got.Balance)
	}
}

func TestPayFeeGating(t *testing.T) {
	e := newEnv(t)

	// Tier 1 below the gate cannot pay.
	low := e.newUser(t)
	e.setBalance(t, low.ID, "50")
	if _, err := e.withdrawal.PayFee(low.ID, domain.MethodCrypto, "", ""); !errors.Is(err, domain.ErrNotEligible) {
		t.Errorf("tier1 below gate: err = %v, want not eligible", err)
	}

	// Paid tier can pay immediately, but only once at a time.
	up := e.newUser(t, func(u *models.User) { u.Tier = 3 })
	p, err := e.withdrawal.PayFee(up.ID, domain.MethodCrypto, "", "0xfee")
	if err != nil {
		t.Fatalf("pay fee: %v", err)
	}
	if !p.FeeAmountUSD.Equal(mustDec(t, "15.00")) {
		t.Errorf("tier 3 fee = %s, want 15.00", p.FeeAmountUSD)
	}
	if _, err := e.withdrawal.PayFee(up.ID, domain.MethodCrypto, "", ""); !errors.Is(err, domain.ErrAlreadyReviewed) {
		t.Errorf("duplicate pending fee: err = %v, want already reviewed", err)
	}
}

func TestApproveFeeUnlocksWithdrawals(t *testing.T) {
	e := newEnv(t)
	u := e.newUser(t, func(u *models.User) { u.Tier = 2 })
	e.setBalance(t, u.ID, "200")

	p, err := e.withdrawal.PayFee(u.ID, domain.MethodBank, "", "")
	if err != nil {
		t.Fatalf("pay fee: %v", err)
	}
	if _, err := e.withdrawal.ApproveFee(p.ID); err != nil {
		t.Fatalf("approve fee: %v", err)
	}
	got := e.reload(t, u.ID)
	if !got.WithdrawalFeePaid {
		t.Fatal("withdrawal_fee_paid not set")
	}
	if _, err := e.withdrawal.PayFee(u.ID, domain.MethodBank, "", ""); !errors.Is(err, domain.ErrFeeAlreadyPaid) {
		t.Errorf("pay after approval: err = %v, want fee already paid", err)
	}
	if _, err := e.withdrawal.Request(u.ID, cryptoRequest("50")); err != nil {
		t.Errorf("withdrawal after fee approval: %v", err)
	}
}

func TestRejectFeeKeepsLocked(t *testing.T) {
	e := newEnv(t)
	u := e.newUser(t, func(u *models.User) { u.Tier = 2 })

	p, err := e.withdrawal.PayFee(u.ID, domain.MethodCrypto, "", "")
	if err != nil {
		t.Fatalf("pay fee: %v", err)
	}
	if _, err := e.withdrawal.RejectFee(p.ID, "no payment received"); err != nil {
		t.Fatalf("reject fee: %v", err)
	}
	if got := e.reload(t, u.ID); got.WithdrawalFeePaid {
		t.Error("fee marked paid after rejection")
	}
	// User can resubmit after a rejection.
	if _, err := e.withdrawal.PayFee(u.ID, domain.MethodCrypto, "", ""); err != nil {
		t.Errorf("resubmit fee: %v", err)
	}
}
