package api

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	imagepkg "github.com/youruser/tagstamp/internal/image"
	"github.com/youruser/tagstamp/internal/logging"
	"github.com/youruser/tagstamp/internal/roster"
	"github.com/youruser/tagstamp/internal/stamp"
	"github.com/youruser/tagstamp/internal/tag"
)

// Server holds what the handlers need. Photos are fetched through Loader,
// the same loader the compositor uses for avatars and logos. Variant is the
// default for requests that name none and must be set.
type Server struct {
	Stamper *stamp.Stamper
	Loader  tag.ImageLoader
	Agents  []roster.Agent
	Variant tag.Variant
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func variants(c *gin.Context) {
	names := []string{}
	for _, v := range tag.Variants() {
		names = append(names, v.Name())
	}
	c.JSON(http.StatusOK, gin.H{"variants": names})
}

type watermarkRequest struct {
	PhotoURL string       `json:"photo_url" binding:"required"`
	Variant  string       `json:"variant"`
	Profile  *tag.Profile `json:"profile"`
	AgentID  string       `json:"agent_id"`
	Format   string       `json:"format"`
}

// watermarkHandler stamps the tag onto the photo at photo_url and returns the
// encoded image.
func (s *Server) watermarkHandler(c *gin.Context) {
	ctx := c.Request.Context()
	logger := logging.FromContext(ctx)

	var req watermarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	variant := s.Variant
	if req.Variant != "" {
		v, err := tag.ParseVariant(req.Variant)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		variant = v
	}
	format, err := stamp.ParseFormat(req.Format)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var profile tag.Profile
	switch {
	case req.AgentID != "":
		a, err := roster.Find(s.Agents, req.AgentID)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, roster.ErrNotFound) {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		profile = a.Profile
	case req.Profile != nil:
		profile = *req.Profile
	}

	photo, err := s.Loader.LoadImage(ctx, req.PhotoURL)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, imagepkg.ErrUnsupportedSource) {
			status = http.StatusBadRequest
		}
		logger.Warn("photo fetch failed", "url", req.PhotoURL, "err", err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	out, g, err := s.Stamper.Stamp(ctx, photo, profile, variant)
	if errors.Is(err, stamp.ErrNoGeometry) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	buf := new(bytes.Buffer)
	if err := stamp.Encode(buf, out, format); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	logger.Debug("stamped", "variant", g.Variant.Name(), "elements", len(g.Elements), "scale", g.Scale)
	c.Header("X-Tag-Variant", g.Variant.Name())
	c.Header("X-Tag-Elements", strconv.Itoa(len(g.Elements)))
	c.Data(http.StatusOK, stamp.ContentType(format), buf.Bytes())
}

// qrHandler returns a PNG QR. With phone it dials the number; with agent_id it
// carries the agent's vCard.
func (s *Server) qrHandler(c *gin.Context) {
	size := 400
	if v, err := strconv.Atoi(c.Query("size")); err == nil {
		size = min(max(v, 64), 2048)
	}

	var (
		b   []byte
		err error
	)
	switch phone, id := c.Query("phone"), c.Query("agent_id"); {
	case id != "":
		a, ferr := roster.Find(s.Agents, id)
		if ferr != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": ferr.Error()})
			return
		}
		b, err = imagepkg.GenerateQRPNG(roster.VCard(a), size)
	case phone != "":
		b, err = imagepkg.ContactQR(phone, size)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "phone or agent_id is required"})
		return
	}
	if errors.Is(err, imagepkg.ErrNoDigits) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

func (s *Server) agentsHandler(c *gin.Context) {
	var opt roster.FilterOptions
	if err := c.ShouldBindQuery(&opt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out := roster.Filter(s.Agents, opt)
	c.JSON(http.StatusOK, gin.H{"count": len(out), "agents": out})
}
