// Package natshandler exposes the converter service over NATS
// request/reply. Each subject carries a JSON request and replies with a
// JSON response on the message's reply subject.
package natshandler

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"codeport/model"
	"codeport/service"
)

const (
	ConvertSubject = "converter.convert.request"
	ExecuteSubject = "converter.execute.request"
)

// Handler subscribes the converter service to its NATS subjects.
type Handler struct {
	svc    *service.ConverterService
	logger *zap.Logger
}

func NewHandler(svc *service.ConverterService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// Subscribe registers both subjects on the connection. Subscriptions stay
// active until the connection is drained or closed.
func (h *Handler) Subscribe(nc *nats.Conn) error {
	if _, err := nc.Subscribe(ConvertSubject, func(msg *nats.Msg) {
		h.handleConvert(msg, nc)
	}); err != nil {
		return err
	}
	if _, err := nc.Subscribe(ExecuteSubject, func(msg *nats.Msg) {
		h.handleExecute(msg, nc)
	}); err != nil {
		return err
	}
	h.logger.Info("NATS subjects registered",
		zap.String("convert", ConvertSubject),
		zap.String("execute", ExecuteSubject))
	return nil
}

func (h *Handler) handleConvert(msg *nats.Msg, nc *nats.Conn) {
	var req model.ConvertRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		h.logger.Warn("Failed to parse convert request", zap.Error(err))
		h.reply(nc, msg, model.ConvertResponse{
			Success:       false,
			Error:         err.Error(),
			StatusMessage: "Failed to parse request",
		})
		return
	}

	res := h.svc.Convert(context.Background(), req)
	h.reply(nc, msg, res)
}

func (h *Handler) handleExecute(msg *nats.Msg, nc *nats.Conn) {
	var req model.ExecuteRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		h.logger.Warn("Failed to parse execute request", zap.Error(err))
		h.reply(nc, msg, model.ExecuteResponse{
			Success:       false,
			Error:         err.Error(),
			StatusMessage: "Failed to parse request",
		})
		return
	}

	res := h.svc.Execute(context.Background(), req)
	h.reply(nc, msg, res)
}

func (h *Handler) reply(nc *nats.Conn, msg *nats.Msg, payload any) {
	if msg.Reply == "" {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal response", zap.Error(err))
		return
	}
	if err := nc.Publish(msg.Reply, data); err != nil {
		h.logger.Error("Failed to publish response", zap.Error(err))
	}
}
