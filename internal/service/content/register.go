package content

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oggyb/vidhub/internal/app"
	"github.com/oggyb/vidhub/internal/response"
	"github.com/oggyb/vidhub/internal/server"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "vidhub.content.Content"

// Registrar ties the Content service into the gRPC server
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the Content service implementation to the gRPC server
func (r *Registrar) Register(s *grpc.Server) {
	h := &handlers{svc: NewContentService(r.appCtx)}
	s.RegisterService(server.NewServiceDesc(ServiceName,
		server.Method{Name: "CreateComment", Handler: h.createComment},
		server.Method{Name: "UpdateComment", Handler: h.updateComment},
		server.Method{Name: "DeleteComment", Handler: h.deleteComment},
		server.Method{Name: "CreateTweet", Handler: h.createTweet},
		server.Method{Name: "UpdateTweet", Handler: h.updateTweet},
		server.Method{Name: "DeleteTweet", Handler: h.deleteTweet},
		server.Method{Name: "CreatePlaylist", Handler: h.createPlaylist},
		server.Method{Name: "UpdatePlaylist", Handler: h.updatePlaylist},
		server.Method{Name: "DeletePlaylist", Handler: h.deletePlaylist},
		server.Method{Name: "PublishVideo", Handler: h.publishVideo},
		server.Method{Name: "UpdateVideo", Handler: h.updateVideo},
		server.Method{Name: "TogglePublishStatus", Handler: h.togglePublishStatus},
		server.Method{Name: "DeleteVideo", Handler: h.deleteVideo},
		server.Method{Name: "RecordWatch", Handler: h.recordWatch},
	), h)
}

type handlers struct {
	svc *Service
}

// actorAndID reads the actor from metadata and a required id field.
func actorAndID(ctx context.Context, req *structpb.Struct, field string) (uint64, uint64, error) {
	actor, err := server.ActorID(ctx)
	if err != nil {
		return 0, 0, err
	}
	id, err := server.ArgsOf(req).ID(field)
	if err != nil {
		return 0, 0, err
	}
	return actor, id, nil
}

func (h *handlers) createComment(ctx context.Context, req *structpb.Struct) (*response.Result, error) {
	actor, videoID, err := actorAndID(ctx, req, "video_id")
	if err != nil {
		return nil, err
	}
	return h.svc.CreateComment(ctx, actor, videoID, server.ArgsOf(req).String("content"))
}

func (h *handlers) updateComment(ctx context.Context, req *structpb.Struct) (*response.Result, error) {
	actor, commentID, err := actorAndID(ctx, req, "comment_id")
	if err != nil {
		return nil, err
	}
	return h.svc.UpdateComment(ctx, actor, commentID, server.ArgsOf(req).String("content"))
}

func (h *handlers) deleteComment(ctx context.Context, req *structpb.Struct) (*response.Result, error) {
	actor, commentID, err := actorAndID(ctx, req, "comment_id")
	if err != nil {
		return nil, err
	}
	return h.svc.DeleteComment(ctx, actor, commentID)
}

func (h *handlers) createTweet(ctx context.Context, req *structpb.Struct) (*response.Result, error) {
	actor, err := server.ActorID(ctx)
	if err != nil {
		return nil, err
	}
	return h.svc.CreateTweet(ctx, actor, server.ArgsOf(req).String("content"))
}

func (h *handlers) updateTweet(ctx context.Context, req *structpb.Struct) (*response.Result, error) {
	actor, tweetID, err := actorAndID(ctx, req, "tweet_id")
	if err != nil {
		return nil, err
	}
	return h.svc.UpdateTweet(ctx, actor, tweetID, server.ArgsOf(req).String("content"))
}

func (h *handlers) deleteTweet(ctx context.Context, req *structpb.Struct) (*response.Result, error) {
	actor, tweetID, err := actorAndID(ctx, req, "tweet_id")
	if err != nil {
		return nil, err
	}
	return h.svc.DeleteTweet(ctx, actor, tweetID)
}

func (h *handlers) createPlaylist(ctx context.Context, req *structpb.Struct) (*response.Result, error) {
	actor, err := server.ActorID(ctx)
	if err != nil {
		return nil, err
	}
	args := server.ArgsOf(req)
	return h.svc.CreatePlaylist(ctx, actor, PlaylistInput{
		Name:        args.String("name"),
		Description: args.String("description"),
	})
}

func (h *handlers) updatePlaylist(ctx context.Context, req *structpb.Struct) (*response.Result, error) {
	actor, playlistID, err := actorAndID(ctx, req, "playlist_id")
	if err != nil {
		return nil, err
	}
	args := server.ArgsOf(req)
	return h.svc.UpdatePlaylist(ctx, actor, playlistID, PlaylistUpdate{
		Name:        args.String("name"),
		Description: args.String("description"),
	})
}

func (h *handlers) deletePlaylist(ctx context.Context, req *structpb.Struct) (*response.Result, error) {
	actor, playlistID, err := actorAndID(ctx, req, "playlist_id")
	if err != nil {
		return nil, err
	}
	return h.svc.DeletePlaylist(ctx, actor, playlistID)
}

func (h *handlers) publishVideo(ctx context.Context, req *structpb.Struct) (*response.Result, error) {
	actor, err := server.ActorID(ctx)
	if err != nil {
		return nil, err
	}
	args := server.ArgsOf(req)
	duration, err := args.Float("duration")
	if err != nil {
		return nil, err
	}
	return h.svc.PublishVideo(ctx, actor, VideoInput{
		Title:       args.String("title"),
		Description: args.String("description"),
		VideoFile:   args.String("video_file"),
		Thumbnail:   args.String("thumbnail"),
		Duration:    duration,
		Category:    args.String("category"),
	})
}

func (h *handlers) updateVideo(ctx context.Context, req *structpb.Struct) (*response.Result, error) {
	actor, videoID, err := actorAndID(ctx, req, "video_id")
	if err != nil {
		return nil, err
	}
	args := server.ArgsOf(req)
	return h.svc.UpdateVideo(ctx, actor, videoID, VideoUpdate{
		Title:       args.String("title"),
		Description: args.String("description"),
		Thumbnail:   args.String("thumbnail"),
	})
}

func (h *handlers) togglePublishStatus(ctx context.Context, req *structpb.Struct) (*response.Result, error) {
	actor, videoID, err := actorAndID(ctx, req, "video_id")
	if err != nil {
		return nil, err
	}
	return h.svc.TogglePublishStatus(ctx, actor, videoID)
}

func (h *handlers) deleteVideo(ctx context.Context, req *structpb.Struct) (*response.Result, error) {
	actor, videoID, err := actorAndID(ctx, req, "video_id")
	if err != nil {
		return nil, err
	}
	return h.svc.DeleteVideo(ctx, actor, videoID)
}

func (h *handlers) recordWatch(ctx context.Context, req *structpb.Struct) (*response.Result, error) {
	actor, videoID, err := actorAndID(ctx, req, "video_id")
	if err != nil {
		return nil, err
	}
	return h.svc.RecordWatch(ctx, actor, videoID)
}
