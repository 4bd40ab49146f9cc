package handlers

import (
	"github.com/gofiber/fiber/v2"

	"transcript-gateway/errors"
	"transcript-gateway/models"
	"transcript-gateway/services/gateway"
	"transcript-gateway/validation"
)

type TranscriptHandler struct {
	service   gateway.Service
	validator *validation.Validator
}

func NewTranscriptHandler(service gateway.Service, validator *validation.Validator) *TranscriptHandler {
	return &TranscriptHandler{service: service, validator: validator}
}

func (h *TranscriptHandler) Transcript(c *fiber.Ctx) error {
	const op = "TranscriptHandler.Transcript"

	var req models.TranscriptRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.InvalidInput(op, err, "Invalid request body")
	}
	if req.Provider == "" {
		return errors.InvalidInput(op, nil, "Provider is required")
	}
	if err := h.validator.ValidateURL(req.VideoURL); err != nil {
		return err
	}
	req.ClientIP = c.IP()

	response, err := h.service.Transcript(c.Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(response)
}

func (h *TranscriptHandler) ChannelVideos(c *fiber.Ctx) error {
	const op = "TranscriptHandler.ChannelVideos"

	var req models.ChannelVideosRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.InvalidInput(op, err, "Invalid request body")
	}
	if err := h.validator.ValidateURL(req.ChannelURL); err != nil {
		return err
	}
	req.ClientIP = c.IP()

	response, err := h.service.ChannelVideos(c.Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(response)
}
