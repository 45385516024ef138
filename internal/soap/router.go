package soap

import (
	_ "embed"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"newswire/internal/config"
	"newswire/internal/db"
	"newswire/internal/middleware"
	"newswire/internal/ratelimit"
)

//go:embed userservice.wsdl
var wsdlDocument []byte

// SetupRouter wires the SOAP user-management endpoint. GET /soap?wsdl
// serves the contract; POST /soap dispatches operations.
func SetupRouter(cfg *config.Config, limiter *ratelimit.FixedWindowLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLog("soap"))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.RateLimit(limiter))
	r.Use(middleware.CORS(cfg.Server.CORSOrigin))

	svc := NewService(cfg)

	r.GET("/health", healthHandler)
	r.GET("/soap", wsdlHandler)
	r.POST("/soap", svc.requestHandler)
	return r
}

// GET /health
func healthHandler(c *gin.Context) {
	status := "OK"
	database := "Connected"
	code := http.StatusOK
	sqlDB, err := db.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		status = "Error"
		database = "Disconnected"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status, "service": "SOAP", "database": database})
}

// GET /soap?wsdl
func wsdlHandler(c *gin.Context) {
	if _, ok := c.GetQuery("wsdl"); !ok {
		c.Data(http.StatusBadRequest, "text/xml; charset=utf-8",
			encodeFault("soap:Client", "Use POST for SOAP requests or GET ?wsdl for the service contract"))
		return
	}
	c.Data(http.StatusOK, "text/xml; charset=utf-8", wsdlDocument)
}

// POST /soap
func (s *Service) requestHandler(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Data(http.StatusBadRequest, "text/xml; charset=utf-8",
			encodeFault("soap:Client", "Unreadable request body"))
		return
	}
	op, payload, err := decodeRequest(raw)
	if err != nil {
		c.Data(http.StatusBadRequest, "text/xml; charset=utf-8",
			encodeFault("soap:Client", err.Error()))
		return
	}
	resp, ok := s.dispatch(op, payload)
	if !ok {
		c.Data(http.StatusBadRequest, "text/xml; charset=utf-8",
			encodeFault("soap:Client", "Unknown operation: "+op))
		return
	}
	out, err := encodeResponse(resp)
	if err != nil {
		c.Data(http.StatusInternalServerError, "text/xml; charset=utf-8",
			encodeFault("soap:Server", "Internal server error"))
		return
	}
	c.Data(http.StatusOK, "text/xml; charset=utf-8", out)
}
