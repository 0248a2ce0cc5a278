package api

import (
	"context"
	"errors"
	"log/slog"

	"github.com/disgoorg/keybot/internal/domain/giveaway"
	"github.com/disgoorg/keybot/keybot/config"
	"github.com/gofiber/fiber/v2"
)

func (s *Server) health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), config.DefaultQueryTimeout)
	defer cancel()

	status := "healthy"
	code := fiber.StatusOK
	if err := s.db.Ping(ctx); err != nil {
		slog.Error("Health check failed",
			slog.String("type", "api"),
			slog.Any("error", err))
		status = "unhealthy"
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status":  status,
		"version": s.opts.Version,
		"commit":  s.opts.Commit,
	})
}

func (s *Server) stats(c *fiber.Ctx) error {
	stats, err := s.giveaway.Stats(c.UserContext())
	if err != nil {
		return s.domainError(c, err)
	}
	return SendSuccess(c, StatsView{
		Unclaimed:   stats.Unclaimed,
		ActiveRound: roundView(stats.ActiveRound),
	})
}

func (s *Server) currentRound(c *fiber.Ctx) error {
	round, err := s.giveaway.CurrentRound(c.UserContext())
	if err != nil {
		return s.domainError(c, err)
	}
	return SendSuccess(c, roundView(round))
}

func (s *Server) roundClaims(c *fiber.Ctx) error {
	roundID, err := roundParam(c)
	if err != nil {
		return err
	}

	claims, err := s.giveaway.RoundClaims(c.UserContext(), roundID)
	if err != nil {
		return s.domainError(c, err)
	}
	return SendSuccess(c, claimsView(roundID, claims))
}

func roundParam(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "round id must be a positive integer")
	}
	return int64(id), nil
}

func (s *Server) domainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, giveaway.ErrNoActiveRound):
		return SendError(c, fiber.StatusNotFound, "NO_ACTIVE_ROUND", "There is no active giveaway round")
	case errors.Is(err, giveaway.ErrRoundNotFound):
		return SendError(c, fiber.StatusNotFound, "ROUND_NOT_FOUND", "That round does not exist")
	}

	slog.Error("API request failed",
		slog.String("type", "api"),
		slog.String("path", c.Path()),
		slog.Any("error", err))
	return SendError(c, fiber.StatusInternalServerError, "STORAGE_ERROR", "The giveaway store is unavailable")
}
