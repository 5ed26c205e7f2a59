package engagement

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oggyb/vidhub/internal/app"
	"github.com/oggyb/vidhub/internal/db"
	svcErr "github.com/oggyb/vidhub/internal/errors"
	"github.com/oggyb/vidhub/internal/response"
	"github.com/oggyb/vidhub/internal/server"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "vidhub.engagement.Engagement"

// Registrar ties the Engagement service into the gRPC server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the Engagement service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the Engagement service implementation to the gRPC server
func (r *Registrar) Register(s *grpc.Server) {
	h := &handlers{svc: NewEngagementService(r.appCtx)}
	s.RegisterService(server.NewServiceDesc(ServiceName,
		server.Method{Name: "ToggleLike", Handler: h.toggleLike},
		server.Method{Name: "ToggleSubscription", Handler: h.toggleSubscription},
		server.Method{Name: "ReconcileVideoCounters", Handler: h.reconcileVideoCounters},
		server.Method{Name: "VideoStats", Handler: h.videoStats},
	), h)
}

type handlers struct {
	svc *Service
}

// toggleLike expects {target_type: "video"|"comment"|"tweet", target_id}.
func (h *handlers) toggleLike(ctx context.Context, req *structpb.Struct) (*response.Result, error) {
	actor, err := server.ActorID(ctx)
	if err != nil {
		return nil, err
	}
	args := server.ArgsOf(req)
	typ, ok := db.ParseTargetType(args.String("target_type"))
	if !ok {
		return nil, svcErr.InvalidArgument("target_type must be one of video, comment, tweet")
	}
	id, err := args.ID("target_id")
	if err != nil {
		return nil, err
	}
	return h.svc.ToggleLike(ctx, actor, db.LikeTarget{Type: typ, ID: id})
}

func (h *handlers) toggleSubscription(ctx context.Context, req *structpb.Struct) (*response.Result, error) {
	actor, err := server.ActorID(ctx)
	if err != nil {
		return nil, err
	}
	channelID, err := server.ArgsOf(req).ID("channel_id")
	if err != nil {
		return nil, err
	}
	return h.svc.ToggleSubscription(ctx, actor, channelID)
}

func (h *handlers) reconcileVideoCounters(ctx context.Context, req *structpb.Struct) (*response.Result, error) {
	if _, err := server.ActorID(ctx); err != nil {
		return nil, err
	}
	videoID, err := server.ArgsOf(req).ID("video_id")
	if err != nil {
		return nil, err
	}
	return h.svc.ReconcileVideoCounters(ctx, videoID)
}

func (h *handlers) videoStats(ctx context.Context, req *structpb.Struct) (*response.Result, error) {
	videoID, err := server.ArgsOf(req).ID("video_id")
	if err != nil {
		return nil, err
	}
	return h.svc.VideoStats(ctx, videoID)
}
