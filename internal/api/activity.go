package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mcphub-dev/mcphub/internal/contracts"
	"github.com/mcphub-dev/mcphub/internal/domain"
)

// ActivityResponse represents the wrapped API response for the activity log.
type ActivityResponse struct {
	Body struct {
		Entries []domain.LogEntry `doc:"Recorded request/response exchanges, oldest first" json:"entries"`
	}
}

// RegisterActivityRoutes sets up activity log API endpoints.
func RegisterActivityRoutes(routerAPI huma.API, recorder contracts.ActivityRecorder, apiPathPrefix string) {
	activityAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Activity"}

	huma.Register(
		activityAPI,
		huma.Operation{
			OperationID: "listActivity",
			Method:      http.MethodGet,
			Summary:     "Fetch the activity log",
			Tags:        tags,
		},
		func(ctx context.Context, _ *struct{}) (*ActivityResponse, error) {
			resp := &ActivityResponse{}
			resp.Body.Entries = recorder.Snapshot()
			return resp, nil
		},
	)

	huma.Register(
		activityAPI,
		huma.Operation{
			OperationID: "clearActivity",
			Method:      http.MethodDelete,
			Summary:     "Clear the activity log",
			Tags:        tags,
		},
		func(ctx context.Context, _ *struct{}) (*StatusMessageResponse, error) {
			recorder.Clear()
			resp := &StatusMessageResponse{}
			resp.Body.Message = "activity log cleared"
			return resp, nil
		},
	)
}
