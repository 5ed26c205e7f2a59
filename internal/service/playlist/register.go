package playlist

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oggyb/vidhub/internal/app"
	"github.com/oggyb/vidhub/internal/response"
	"github.com/oggyb/vidhub/internal/server"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "vidhub.playlist.Playlist"

// Registrar ties the Playlist service into the gRPC server
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

func (r *Registrar) Register(s *grpc.Server) {
	svc := NewPlaylistService(r.appCtx)
	s.RegisterService(server.NewServiceDesc(ServiceName,
		server.Method{Name: "AddVideo", Handler: membership(svc.AddVideo)},
		server.Method{Name: "RemoveVideo", Handler: membership(svc.RemoveVideo)},
	), svc)
}

// membership expects {playlist_id, video_id} and the actor in metadata.
func membership(op func(ctx context.Context, actorID, playlistID, videoID uint64) (*response.Result, error)) server.Handler {
	return func(ctx context.Context, req *structpb.Struct) (*response.Result, error) {
		actor, err := server.ActorID(ctx)
		if err != nil {
			return nil, err
		}
		args := server.ArgsOf(req)
		playlistID, err := args.ID("playlist_id")
		if err != nil {
			return nil, err
		}
		videoID, err := args.ID("video_id")
		if err != nil {
			return nil, err
		}
		return op(ctx, actor, playlistID, videoID)
	}
}
