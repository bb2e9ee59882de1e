package reply

import (
	"context"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"estatehub/pkg/logger"
)

var Module = fx.Invoke(New)

var (
	iLogger = logger.NewNop()
	json    = jsoniter.ConfigCompatibleWithStandardLibrary
)

type Params struct {
	fx.In
	Logger logger.Logger
}

func New(params Params) {
	iLogger = params.Logger
}

func Json(w http.ResponseWriter, status int, data interface{}) {
	reply, err := json.Marshal(data)
	if err != nil {
		iLogger.Error(context.TODO(), "err on json.Marshal", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(reply)
}

func PNG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
