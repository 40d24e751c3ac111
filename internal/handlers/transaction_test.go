package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kybaloo/expense-management/internal/dto"
	"github.com/kybaloo/expense-management/internal/errs"
	"github.com/kybaloo/expense-management/internal/models"
)

type stubTransactionService struct {
	createView *dto.TransactionView
	createErr  error
	lastCreate dto.CreateTransactionRequest

	getView   *dto.TransactionView
	getErr    error
	lastGetID string

	updateView    *dto.TransactionView
	updateErr     error
	lastUpdateID  string
	lastUpdateReq dto.UpdateTransactionRequest

	deleteErr    error
	lastDeleteID string

	listResp *dto.ListTransactionsResponse
	listErr  error
	lastList dto.ListTransactionsArgs
}

func (s *stubTransactionService) Create(_ context.Context, _ string, req dto.CreateTransactionRequest) (*dto.TransactionView, error) {
	s.lastCreate = req
	return s.createView, s.createErr
}

func (s *stubTransactionService) Get(_ context.Context, _, transactionID string) (*dto.TransactionView, error) {
	s.lastGetID = transactionID
	return s.getView, s.getErr
}

func (s *stubTransactionService) Update(_ context.Context, _, transactionID string, req dto.UpdateTransactionRequest) (*dto.TransactionView, error) {
	s.lastUpdateID = transactionID
	s.lastUpdateReq = req
	return s.updateView, s.updateErr
}

func (s *stubTransactionService) Delete(_ context.Context, _, transactionID string) error {
	s.lastDeleteID = transactionID
	return s.deleteErr
}

func (s *stubTransactionService) List(_ context.Context, _ string, args dto.ListTransactionsArgs) (*dto.ListTransactionsResponse, error) {
	s.lastList = args
	return s.listResp, s.listErr
}

type stubSummaryService struct {
	resp     *dto.SummaryResponse
	err      error
	lastArgs dto.SummaryArgs
}

func (s *stubSummaryService) Summary(_ context.Context, _ string, args dto.SummaryArgs) (*dto.SummaryResponse, error) {
	s.lastArgs = args
	return s.resp, s.err
}

func newTransactionHandlersForTest(svc *stubTransactionService, summary *stubSummaryService, resp *stubResponseHandler) *transactionHandlers {
	return &transactionHandlers{
		ResponseHandler: resp,
		TransactionSvc:  svc,
		SummarySvc:      summary,
	}
}

func TestListTransactionsParsesQuery(t *testing.T) {
	svc := &stubTransactionService{listResp: &dto.ListTransactionsResponse{CurrentPage: 2}}
	resp := &stubResponseHandler{}
	h := newTransactionHandlersForTest(svc, &stubSummaryService{}, resp)

	url := "/transactions?page=2&limit=20&type=expense&category=groceries&search=coffee&startDate=2025-06-01&endDate=2025-06-30"
	req := withUID(httptest.NewRequest(http.MethodGet, url, nil), "uid-123")
	rr := httptest.NewRecorder()

	h.List(rr, req)

	args := svc.lastList
	if args.Page != 2 || args.Limit != 20 {
		t.Fatalf("pagination mismatch: %+v", args)
	}
	if args.Type == nil || *args.Type != models.TypeExpense {
		t.Fatalf("type mismatch: %+v", args.Type)
	}
	if args.CategoryID == nil || *args.CategoryID != "groceries" {
		t.Fatalf("category mismatch: %+v", args.CategoryID)
	}
	if args.Search != "coffee" {
		t.Fatalf("search mismatch: %q", args.Search)
	}
	if args.StartDate == nil || args.EndDate == nil {
		t.Fatalf("date range not parsed: %+v", args)
	}
	if !resp.writeSuccessCalled {
		t.Fatalf("WriteSuccess not called")
	}
}

func TestListTransactionsDefaultsPagination(t *testing.T) {
	svc := &stubTransactionService{listResp: &dto.ListTransactionsResponse{}}
	resp := &stubResponseHandler{}
	h := newTransactionHandlersForTest(svc, &stubSummaryService{}, resp)

	req := withUID(httptest.NewRequest(http.MethodGet, "/transactions?page=abc&limit=-5", nil), "uid-123")
	rr := httptest.NewRecorder()

	h.List(rr, req)

	if svc.lastList.Page != 1 || svc.lastList.Limit != 10 {
		t.Fatalf("expected defaults for bad params: %+v", svc.lastList)
	}
}

func TestListTransactionsRejectsBadDate(t *testing.T) {
	svc := &stubTransactionService{}
	resp := &stubResponseHandler{}
	h := newTransactionHandlersForTest(svc, &stubSummaryService{}, resp)

	req := withUID(httptest.NewRequest(http.MethodGet, "/transactions?startDate=june", nil), "uid-123")
	rr := httptest.NewRecorder()

	h.List(rr, req)

	var verr *errs.ValidationError
	if !resp.handleErrorCalled || !errors.As(resp.handleError, &verr) {
		t.Fatalf("expected validation error, got %v", resp.handleError)
	}
	if resp.writeSuccessCalled {
		t.Fatalf("WriteSuccess should not be called on bad date")
	}
}

func TestCreateTransaction(t *testing.T) {
	svc := &stubTransactionService{createView: &dto.TransactionView{}}
	resp := &stubResponseHandler{}
	h := newTransactionHandlersForTest(svc, &stubSummaryService{}, resp)

	body := `{"amount":42.5,"description":"Coffee","type":"expense","categoryId":"groceries"}`
	req := withUID(httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(body)), "uid-123")
	rr := httptest.NewRecorder()

	h.Create(rr, req)

	if svc.lastCreate.Amount == nil || *svc.lastCreate.Amount != 42.5 {
		t.Fatalf("service received wrong amount: %+v", svc.lastCreate.Amount)
	}
	if svc.lastCreate.CategoryID != "groceries" {
		t.Fatalf("service received wrong category: %q", svc.lastCreate.CategoryID)
	}
	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusCreated {
		t.Fatalf("WriteSuccess not called with status 201")
	}
}

func TestGetTransactionPassesParam(t *testing.T) {
	svc := &stubTransactionService{getView: &dto.TransactionView{}}
	resp := &stubResponseHandler{}
	h := newTransactionHandlersForTest(svc, &stubSummaryService{}, resp)

	req := httptest.NewRequest(http.MethodGet, "/transactions/t1", nil)
	req = withUID(withChiParam(req, "transactionId", "t1"), "uid-123")
	rr := httptest.NewRecorder()

	h.Get(rr, req)

	if svc.lastGetID != "t1" {
		t.Fatalf("service received wrong id: %q", svc.lastGetID)
	}
}

func TestUpdateTransactionServiceError(t *testing.T) {
	svc := &stubTransactionService{updateErr: errs.NewNotFoundError("Transaction not found")}
	resp := &stubResponseHandler{}
	h := newTransactionHandlersForTest(svc, &stubSummaryService{}, resp)

	req := httptest.NewRequest(http.MethodPut, "/transactions/t1", strings.NewReader(`{"description":"x"}`))
	req = withUID(withChiParam(req, "transactionId", "t1"), "uid-123")
	rr := httptest.NewRecorder()

	h.Update(rr, req)

	if !errors.Is(resp.handleError, svc.updateErr) {
		t.Fatalf("unexpected error passed to HandleError: %v", resp.handleError)
	}
}

func TestDeleteTransaction(t *testing.T) {
	svc := &stubTransactionService{}
	resp := &stubResponseHandler{}
	h := newTransactionHandlersForTest(svc, &stubSummaryService{}, resp)

	req := httptest.NewRequest(http.MethodDelete, "/transactions/t1", nil)
	req = withUID(withChiParam(req, "transactionId", "t1"), "uid-123")
	rr := httptest.NewRecorder()

	h.Delete(rr, req)

	if svc.lastDeleteID != "t1" {
		t.Fatalf("service received wrong id: %q", svc.lastDeleteID)
	}
	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("WriteSuccess not called with status 200")
	}
}

func TestSummaryParsesRange(t *testing.T) {
	summary := &stubSummaryService{resp: &dto.SummaryResponse{Balance: 120}}
	resp := &stubResponseHandler{}
	h := newTransactionHandlersForTest(&stubTransactionService{}, summary, resp)

	url := "/transactions/summary/stats?startDate=2025-06-01&endDate=2025-06-30"
	req := withUID(httptest.NewRequest(http.MethodGet, url, nil), "uid-123")
	rr := httptest.NewRecorder()

	h.Summary(rr, req)

	if summary.lastArgs.StartDate == nil || summary.lastArgs.EndDate == nil {
		t.Fatalf("range not parsed: %+v", summary.lastArgs)
	}
	got, ok := resp.writeSuccessData.(*dto.SummaryResponse)
	if !ok || got.Balance != 120 {
		t.Fatalf("unexpected response payload: %+v", resp.writeSuccessData)
	}
}
