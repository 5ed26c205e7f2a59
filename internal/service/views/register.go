package views

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oggyb/vidhub/internal/app"
	svcErr "github.com/oggyb/vidhub/internal/errors"
	"github.com/oggyb/vidhub/internal/response"
	"github.com/oggyb/vidhub/internal/server"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "vidhub.views.Views"

// Registrar ties the Views service into the gRPC server
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the Views service implementation to the gRPC server.
// Public views take no actor; ChannelProfile and Video use it when present.
// LikedVideos and WatchHistory are private to the actor.
func (r *Registrar) Register(s *grpc.Server) {
	h := &handlers{svc: NewViewsService(r.appCtx)}
	s.RegisterService(server.NewServiceDesc(ServiceName,
		server.Method{Name: "ChannelProfile", Handler: h.channelProfile},
		server.Method{Name: "VideoComments", Handler: h.videoComments},
		server.Method{Name: "LikedVideos", Handler: ownID("user_id", h.svc.LikedVideos)},
		server.Method{Name: "ChannelSubscribers", Handler: byID("channel_id", h.svc.ChannelSubscribers)},
		server.Method{Name: "SubscribedChannels", Handler: byID("subscriber_id", h.svc.SubscribedChannels)},
		server.Method{Name: "WatchHistory", Handler: ownID("user_id", h.svc.WatchHistory)},
		server.Method{Name: "UserTweets", Handler: byID("user_id", h.svc.UserTweets)},
		server.Method{Name: "UserPlaylists", Handler: byID("user_id", h.svc.UserPlaylists)},
		server.Method{Name: "PlaylistContents", Handler: byID("playlist_id", h.svc.PlaylistContents)},
		server.Method{Name: "Video", Handler: h.video},
	), h)
}

type handlers struct {
	svc *Service
}

func (h *handlers) channelProfile(ctx context.Context, req *structpb.Struct) (*response.Result, error) {
	return h.svc.ChannelProfile(ctx, server.OptionalActorID(ctx), server.ArgsOf(req).String("username"))
}

func (h *handlers) video(ctx context.Context, req *structpb.Struct) (*response.Result, error) {
	videoID, err := server.ArgsOf(req).ID("video_id")
	if err != nil {
		return nil, err
	}
	return h.svc.Video(ctx, server.OptionalActorID(ctx), videoID)
}

func (h *handlers) videoComments(ctx context.Context, req *structpb.Struct) (*response.Result, error) {
	args := server.ArgsOf(req)
	videoID, err := args.ID("video_id")
	if err != nil {
		return nil, err
	}
	page, err := args.Int("page")
	if err != nil {
		return nil, err
	}
	limit, err := args.Int("limit")
	if err != nil {
		return nil, err
	}
	return h.svc.VideoComments(ctx, videoID, page, limit)
}

// byID adapts a single-root view to a handler reading the root id from field.
func byID(field string, view func(context.Context, uint64) (*response.Result, error)) server.Handler {
	return func(ctx context.Context, req *structpb.Struct) (*response.Result, error) {
		id, err := server.ArgsOf(req).ID(field)
		if err != nil {
			return nil, err
		}
		return view(ctx, id)
	}
}

// ownID is byID for views that only the user named by field may read.
func ownID(field string, view func(context.Context, uint64) (*response.Result, error)) server.Handler {
	return func(ctx context.Context, req *structpb.Struct) (*response.Result, error) {
		actorID, err := server.ActorID(ctx)
		if err != nil {
			return nil, err
		}
		id, err := server.ArgsOf(req).ID(field)
		if err != nil {
			return nil, err
		}
		if id != actorID {
			return nil, svcErr.Forbidden("You are not allowed to view this history")
		}
		return view(ctx, id)
	}
}
