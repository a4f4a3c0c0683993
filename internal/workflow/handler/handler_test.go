package handler

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"kycflow/internal/fixtures"
	"kycflow/internal/workflow"
	"kycflow/pkg/testutil"
)

func TestHandleGraph(t *testing.T) {
	graph := fixtures.MustLoad().Workflow
	r := chi.NewRouter()
	New(graph).Register(r)

	rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/workflow"))
	testutil.AssertStatusOK(t, rr)
	got := testutil.UnmarshalResponse[workflow.Graph](t, rr)
	assert.Equal(t, graph, *got)
}
