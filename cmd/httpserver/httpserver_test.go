package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/go-petr/bank-account/internal/accountdelivery"
	"github.com/go-petr/bank-account/internal/domain"
	"github.com/go-petr/bank-account/internal/integrationtest"
	"github.com/go-petr/bank-account/pkg/randompkg"
	"github.com/go-petr/bank-account/pkg/validatorpkg"
	"github.com/go-petr/bank-account/pkg/web"
)

type accountData struct {
	Account accountdelivery.Account `json:"account"`
}

func send(t *testing.T, h http.Handler, method, url string, body any) (int, web.Response) {
	t.Helper()

	var buf bytes.Buffer

	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Encoding request body error: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("Creating request error: %v", err)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	res := web.Response{Data: &accountData{}}
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatalf("Decoding response body error: %v", err)
	}

	return w.Code, res
}

func TestCreateAccountAPI(t *testing.T) {
	server := integrationtest.SetupServer(t)
	existing := integrationtest.SeedAccount(t, server, "0")

	testCases := []struct {
		name           string
		accountNumber  string
		wantStatusCode int
		wantError      string
	}{
		{name: "OK", accountNumber: "1234-ABCDE", wantStatusCode: http.StatusOK},
		{name: "OKLowerCase", accountNumber: "5555-qwert", wantStatusCode: http.StatusOK},
		{
			name:           "InvalidFormat",
			accountNumber:  "1234-ABCDEF",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "AccountNumber must have the DDDD-LLLLL format",
		},
		{
			name:           "AlreadyExists",
			accountNumber:  existing.AccountNumber(),
			wantStatusCode: http.StatusConflict,
			wantError:      domain.ErrAccountAlreadyExists.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			body := map[string]string{"account_number": tc.accountNumber}

			code, res := send(t, server, http.MethodPost, "/accounts", body)
			if code != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", code, tc.wantStatusCode)
			}

			if tc.wantStatusCode != http.StatusOK {
				if res.Error != tc.wantError {
					t.Errorf(`resp.Error=%q, want %q`, res.Error, tc.wantError)
				}

				return
			}

			want := accountdelivery.Account{AccountNumber: tc.accountNumber, Balance: decimal.Zero}
			if diff := cmp.Diff(want, res.Data.(*accountData).Account); diff != "" {
				t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDepositWithdrawAPI(t *testing.T) {
	server := integrationtest.SetupServer(t)
	account := integrationtest.SeedAccount(t, server, "0")
	base := "/accounts/" + account.AccountNumber()

	steps := []struct {
		name           string
		op             string
		amount         string
		wantStatusCode int
		wantBalance    string
		wantError      string
	}{
		{name: "DepositToFresh", op: "deposit", amount: "100", wantStatusCode: http.StatusOK, wantBalance: "100"},
		{name: "DepositZero", op: "deposit", amount: "0", wantStatusCode: http.StatusBadRequest, wantError: domain.ErrOutOfRange.Error()},
		{name: "DepositNegative", op: "deposit", amount: "-50", wantStatusCode: http.StatusBadRequest, wantError: domain.ErrOutOfRange.Error()},
		{name: "DepositTooPrecise", op: "deposit", amount: "1.001", wantStatusCode: http.StatusBadRequest, wantError: domain.ErrInvalidAmount.Error()},
		{name: "DepositHugeExponent", op: "deposit", amount: "1e20000000", wantStatusCode: http.StatusBadRequest, wantError: domain.ErrInvalidAmount.Error()},
		{name: "DepositTinyExponent", op: "deposit", amount: "1e-400000", wantStatusCode: http.StatusBadRequest, wantError: domain.ErrInvalidAmount.Error()},
		{name: "DepositMore", op: "deposit", amount: "100", wantStatusCode: http.StatusOK, wantBalance: "200"},
		{name: "Withdraw", op: "withdraw", amount: "50", wantStatusCode: http.StatusOK, wantBalance: "150"},
		{name: "WithdrawTooMuch", op: "withdraw", amount: "150.01", wantStatusCode: http.StatusUnprocessableEntity, wantError: domain.ErrInsufficientBalance.Error()},
		{name: "WithdrawHugeExponent", op: "withdraw", amount: "1e20000000", wantStatusCode: http.StatusBadRequest, wantError: domain.ErrInvalidAmount.Error()},
		{name: "WithdrawZero", op: "withdraw", amount: "0", wantStatusCode: http.StatusBadRequest, wantError: domain.ErrOutOfRange.Error()},
		{name: "WithdrawNegative", op: "withdraw", amount: "-50", wantStatusCode: http.StatusBadRequest, wantError: domain.ErrOutOfRange.Error()},
		{name: "WithdrawAll", op: "withdraw", amount: "150", wantStatusCode: http.StatusOK, wantBalance: "0"},
	}

	// Steps build on each other and must run in order.
	for _, s := range steps {
		code, res := send(t, server, http.MethodPost, base+"/"+s.op, map[string]string{"amount": s.amount})
		if code != s.wantStatusCode {
			t.Fatalf("%s: status code: got %v, want %v (error %q)", s.name, code, s.wantStatusCode, res.Error)
		}

		if s.wantStatusCode != http.StatusOK {
			if res.Error != s.wantError {
				t.Errorf(`%s: resp.Error=%q, want %q`, s.name, res.Error, s.wantError)
			}

			continue
		}

		got := res.Data.(*accountData).Account.Balance
		if !got.Equal(decimal.RequireFromString(s.wantBalance)) {
			t.Errorf("%s: balance=%v, want %v", s.name, got, s.wantBalance)
		}
	}

	code, res := send(t, server, http.MethodGet, base, nil)
	if code != http.StatusOK {
		t.Fatalf("Status code: got %v, want %v", code, http.StatusOK)
	}

	if got := res.Data.(*accountData).Account.Balance; !got.IsZero() {
		t.Errorf("final balance=%v, want 0", got)
	}
}

func TestConcurrentDepositsAPI(t *testing.T) {
	server := integrationtest.SetupServer(t)
	account := integrationtest.SeedAccount(t, server, "0")
	url := fmt.Sprintf("/accounts/%s/deposit", account.AccountNumber())

	n := 20
	amount := randompkg.MoneyAmountBetween(1, 100)

	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			body := strings.NewReader(fmt.Sprintf(`{"amount":%q}`, amount.String()))

			req, err := http.NewRequest(http.MethodPost, url, body)
			if err != nil {
				t.Errorf("Creating request error: %v", err)
				return
			}

			w := httptest.NewRecorder()
			server.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("Status code: got %v, want %v (body %s)", w.Code, http.StatusOK, w.Body.String())
			}
		}()
	}

	wg.Wait()

	got, err := server.Repo.Get(context.Background(), account.AccountNumber())
	if err != nil {
		t.Fatalf("server.Repo.Get() returned error: %v", err)
	}

	want := amount.Mul(decimal.NewFromInt(int64(n)))
	if !got.Balance().Equal(want) {
		t.Errorf("balance=%v, want %v", got.Balance(), want)
	}
}

func TestListAccountsAPI(t *testing.T) {
	server := integrationtest.SetupServer(t)

	for i := 0; i < 3; i++ {
		integrationtest.SeedAccount(t, server, "10")
	}

	req, err := http.NewRequest(http.MethodGet, "/accounts?page_id=1&page_size=2", nil)
	if err != nil {
		t.Fatalf("Creating request error: %v", err)
	}

	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status code: got %v, want %v", w.Code, http.StatusOK)
	}

	data := &struct {
		Accounts []accountdelivery.Account `json:"accounts"`
	}{}
	if err := json.NewDecoder(w.Body).Decode(&web.Response{Data: data}); err != nil {
		t.Fatalf("Decoding response body error: %v", err)
	}

	if len(data.Accounts) != 2 {
		t.Fatalf("len(accounts)=%d, want 2", len(data.Accounts))
	}

	if data.Accounts[0].AccountNumber >= data.Accounts[1].AccountNumber {
		t.Errorf("accounts are not ordered: %v", data.Accounts)
	}
}

func TestListAccountsFarPageAPI(t *testing.T) {
	server := integrationtest.SetupServer(t)
	integrationtest.SeedAccount(t, server, "10")

	// (42949674-1)*100 does not fit into int32.
	req, err := http.NewRequest(http.MethodGet, "/accounts?page_id=42949674&page_size=100", nil)
	if err != nil {
		t.Fatalf("Creating request error: %v", err)
	}

	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status code: got %v, want %v", w.Code, http.StatusOK)
	}

	data := &struct {
		Accounts []accountdelivery.Account `json:"accounts"`
	}{}
	if err := json.NewDecoder(w.Body).Decode(&web.Response{Data: data}); err != nil {
		t.Fatalf("Decoding response body error: %v", err)
	}

	if len(data.Accounts) != 0 {
		t.Errorf("len(accounts)=%d, want 0", len(data.Accounts))
	}
}

func TestRangeCheckAPI(t *testing.T) {
	server := integrationtest.SetupServer(t)

	min, max := 1.0, 10.0
	value := randompkg.FloatBetween(min, max)

	want, err := validatorpkg.IsWithinRange(value, min, max)
	if err != nil {
		t.Fatalf("IsWithinRange returned error: %v", err)
	}

	url := fmt.Sprintf("/ranges/check?value=%v&min=%v&max=%v", value, min, max)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("Creating request error: %v", err)
	}

	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status code: got %v, want %v", w.Code, http.StatusOK)
	}

	data := &struct {
		WithinRange bool `json:"within_range"`
	}{}
	if err := json.NewDecoder(w.Body).Decode(&web.Response{Data: data}); err != nil {
		t.Fatalf("Decoding response body error: %v", err)
	}

	if data.WithinRange != want {
		t.Errorf("within_range=%v, want %v", data.WithinRange, want)
	}
}
