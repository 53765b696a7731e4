package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/corebooks/corebooks_backend/internal/apperrors"
	"github.com/corebooks/corebooks_backend/internal/core/domain"
	"github.com/corebooks/corebooks_backend/internal/core/services"
	"github.com/corebooks/corebooks_backend/internal/dto"
)

func postDocumentRequest() dto.PostDocumentRequest {
	return dto.PostDocumentRequest{
		Reference:    dto.DocumentRefRequest{Kind: domain.DocSalesInvoice, ID: "inv-42"},
		EntryDate:    day(2026, time.March, 15),
		CurrencyCode: "USD",
		Memo:         "Invoice INV-42",
		Allocations: []dto.BridgeAllocationRequest{
			{AccountID: "acc-receivable", Debit: dec("250.00")},
			{AccountID: "acc-revenue", Credit: dec("250.00")},
		},
	}
}

func TestPostDocument_Success(t *testing.T) {
	journal := new(MockJournalService)
	svc := services.NewDocumentBridgeService(journal)
	ctx := context.Background()
	ref := domain.DocumentRef{Kind: domain.DocSalesInvoice, ID: "inv-42"}

	draft := draftEntry()
	posted := postedEntry()

	journal.On("FindByReference", ctx, testCompanyID, ref).Return(nil, apperrors.ErrNotFound)
	journal.On("CreateDraft", ctx, testCompanyID, mock.MatchedBy(func(req dto.CreateJournalEntryRequest) bool {
		return req.Reference != nil && req.Reference.ID == "inv-42" &&
			len(req.Lines) == 2 &&
			req.Lines[0].AccountID == "acc-receivable" && req.Lines[0].Debit.Equal(dec("250.00")) &&
			req.Lines[1].Credit.Equal(dec("250.00"))
	}), testActorID).Return(draft, nil)
	journal.On("PostEntry", ctx, testCompanyID, draft.EntryID, testActorID).Return(posted, nil)

	got, err := svc.PostDocument(ctx, testCompanyID, postDocumentRequest(), testActorID)

	assert.NoError(t, err)
	assert.Equal(t, domain.EntryPosted, got.Status)
	journal.AssertExpectations(t)
	journal.AssertNotCalled(t, "DeleteDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPostDocument_DuplicateReference(t *testing.T) {
	journal := new(MockJournalService)
	svc := services.NewDocumentBridgeService(journal)
	ctx := context.Background()
	ref := domain.DocumentRef{Kind: domain.DocSalesInvoice, ID: "inv-42"}

	journal.On("FindByReference", ctx, testCompanyID, ref).Return(postedEntry(), nil)

	_, err := svc.PostDocument(ctx, testCompanyID, postDocumentRequest(), testActorID)

	assert.ErrorIs(t, err, services.ErrDocumentAlreadyPosted)
	journal.AssertNotCalled(t, "CreateDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPostDocument_InvalidReference(t *testing.T) {
	journal := new(MockJournalService)
	svc := services.NewDocumentBridgeService(journal)

	req := postDocumentRequest()
	req.Reference = dto.DocumentRefRequest{Kind: "DELIVERY_NOTE", ID: "dn-1"}

	_, err := svc.PostDocument(context.Background(), testCompanyID, req, testActorID)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	journal.AssertNotCalled(t, "FindByReference", mock.Anything, mock.Anything, mock.Anything)
}

func TestPostDocument_CleansUpDraftOnPostingFailure(t *testing.T) {
	journal := new(MockJournalService)
	svc := services.NewDocumentBridgeService(journal)
	ctx := context.Background()
	ref := domain.DocumentRef{Kind: domain.DocSalesInvoice, ID: "inv-42"}

	draft := draftEntry()

	journal.On("FindByReference", ctx, testCompanyID, ref).Return(nil, apperrors.ErrNotFound)
	journal.On("CreateDraft", ctx, testCompanyID, mock.Anything, testActorID).Return(draft, nil)
	journal.On("PostEntry", ctx, testCompanyID, draft.EntryID, testActorID).Return(nil, services.ErrEntryUnbalanced)
	journal.On("DeleteDraft", ctx, testCompanyID, draft.EntryID, testActorID).Return(nil)

	_, err := svc.PostDocument(ctx, testCompanyID, postDocumentRequest(), testActorID)

	assert.ErrorIs(t, err, services.ErrEntryUnbalanced)
	journal.AssertExpectations(t)
}

func TestVoidDocument(t *testing.T) {
	journal := new(MockJournalService)
	svc := services.NewDocumentBridgeService(journal)
	ctx := context.Background()
	ref := domain.DocumentRef{Kind: domain.DocSalesInvoice, ID: "inv-42"}

	entry := postedEntry()
	voided := postedEntry()
	voided.Status = domain.EntryVoided

	journal.On("FindByReference", ctx, testCompanyID, ref).Return(entry, nil)
	journal.On("VoidEntry", ctx, testCompanyID, entry.EntryID, "customer cancelled", testActorID).Return(voided, nil)

	got, err := svc.VoidDocument(ctx, testCompanyID, ref, "customer cancelled", testActorID)

	assert.NoError(t, err)
	assert.Equal(t, domain.EntryVoided, got.Status)
	journal.AssertExpectations(t)
}
