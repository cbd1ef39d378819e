package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"order-dashboard/internal/domain"
	"order-dashboard/internal/storage"
)

// broker resolves the broker query parameter.
func broker(c *gin.Context) domain.Broker {
	return domain.LookupBroker(c.Query("broker"))
}

// account reads the trimmed account parameter.
func account(c *gin.Context) string {
	return strings.TrimSpace(c.Query("account"))
}

// filter reads and validates the order filter parameters.
// symbol and status may repeat.
func filter(c *gin.Context) (domain.Filter, error) {
	f := domain.NewFilter(
		account(c),
		c.Query("date"),
		c.QueryArray("symbol"),
		c.QueryArray("status"),
	)
	if err := f.Validate(); err != nil {
		return domain.Filter{}, fmt.Errorf("%w: %w", storage.ErrInvalidInput, err)
	}
	return f, nil
}

func (s *Server) listBrokers(c *gin.Context) {
	c.JSON(http.StatusOK, domain.Brokers)
}

func (s *Server) listAccounts(c *gin.Context) {
	accounts, err := s.orders.ListAccounts(c.Request.Context(), broker(c))
	if err != nil {
		s.fail(c, "list accounts", err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (s *Server) listDates(c *gin.Context) {
	dates, err := s.orders.ListDates(c.Request.Context(), broker(c), account(c))
	if err != nil {
		s.fail(c, "list dates", err)
		return
	}
	c.JSON(http.StatusOK, dates)
}

func (s *Server) listSymbols(c *gin.Context) {
	// No account is an empty list, whatever the date says.
	if account(c) == "" {
		c.JSON(http.StatusOK, []string{})
		return
	}
	f, err := filter(c)
	if err != nil {
		s.fail(c, "list symbols", err)
		return
	}
	symbols, err := s.orders.ListSymbols(c.Request.Context(), broker(c), f.Account, f.Date)
	if err != nil {
		s.fail(c, "list symbols", err)
		return
	}
	c.JSON(http.StatusOK, symbols)
}

func (s *Server) listStatuses(c *gin.Context) {
	statuses, err := s.orders.ListStatuses(c.Request.Context(), broker(c), account(c))
	if err != nil {
		s.fail(c, "list statuses", err)
		return
	}
	c.JSON(http.StatusOK, statuses)
}

func (s *Server) listOrders(c *gin.Context) {
	f, err := filter(c)
	if err != nil {
		s.fail(c, "list orders", err)
		return
	}
	orders, err := s.orders.ListOrders(c.Request.Context(), broker(c), f)
	if err != nil {
		s.fail(c, "list orders", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (s *Server) stats(c *gin.Context) {
	f, err := filter(c)
	if err != nil {
		s.fail(c, "stats", err)
		return
	}
	stats, err := s.orders.Stats(c.Request.Context(), broker(c), f)
	if err != nil {
		s.fail(c, "stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
