package main

import (
	"bytes"
	"context"
	errs "errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/a-h/templ"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/oliverisaac/goli"
	"github.com/oliverisaac/moodsignage/lib/moodstore"
	"github.com/oliverisaac/moodsignage/lib/seed"
	"github.com/oliverisaac/moodsignage/static"
	"github.com/oliverisaac/moodsignage/types"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func init() {
	goli.InitLogrus(logrus.DebugLevel)
}

const SessionKey = "session"
const SessionDaysKey = "days"

type clock func() time.Time

// structValidator lets handlers call c.Validate on tagged types.
type structValidator struct{}

func (structValidator) Validate(i any) error {
	return types.ValidateStruct(i)
}

// render buffers the page so a failing component still turns into a 500.
func render(c echo.Context, status int, page templ.Component) error {
	var buf bytes.Buffer
	if err := page.Render(c.Request().Context(), &buf); err != nil {
		return errors.Wrap(err, "rendering page")
	}
	return c.HTMLBlob(status, buf.Bytes())
}

// logPanic reports a recovered panic with its stack as one log entry.
func logPanic(c echo.Context, err error, stack []byte) error {
	logrus.WithFields(logrus.Fields{
		"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
		"method":     c.Request().Method,
		"path":       c.Request().URL.Path,
		"stack":      strings.TrimSpace(string(stack)),
	}).Error(errors.Wrap(err, "recovered panic"))
	return err
}

func main() {
	err := run()
	if err != nil {
		logrus.Fatal(err)
	}
}

func run() error {
	err := godotenv.Load(".env")
	if err != nil {
		logrus.Error(errors.Wrap(err, "Failed to load .env"))
	}

	tz := os.Getenv("TZ")
	if tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return errors.Wrap(err, "failed to load timezone")
		}
		time.Local = loc
	}

	cfg, err := types.ConfigFromEnv()
	if err != nil {
		return errors.Wrap(err, "Loading config from env")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := moodstore.Open(cfg)
	if err != nil {
		return err
	}
	store := moodstore.New(db)
	defer store.Close()

	if err := store.Initialize(ctx); err != nil {
		return errors.Wrap(err, "Failed to migrate")
	}

	gen := seed.NewGenerator(cfg.SeedDays, cfg.SeedProbability)
	e := newServer(cfg, store, gen, time.Now)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logrus.Error(errors.Wrap(err, "shutting down server"))
		}
	}()

	logrus.Infof("Listening on %s", cfg.ListenAddr)
	if err := e.Start(cfg.ListenAddr); err != nil && !errs.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newServer(cfg types.Config, store *moodstore.Store, gen *seed.Generator, now clock) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(log.WARN)
	e.Validator = structValidator{}

	e.StaticFS("/static", static.FS)

	origErrHandler := e.HTTPErrorHandler
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		logger := logrus.WithField("request_id", c.Response().Header().Get(echo.HeaderXRequestID))
		var he *echo.HTTPError
		if errs.As(err, &he) && he.Code < http.StatusInternalServerError {
			logger.Warn(err)
		} else {
			logger.Error(err)
		}
		origErrHandler(err, c)
	}

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize:       8 << 10,
		DisableStackAll: true,
		LogErrorFunc:    logPanic,
	}))

	e.Use(middleware.Secure())

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "method=${method}, uri=${uri}, status=${status}, id=${id}\n",
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return p == "/healthz" || p == "/metrics"
		},
	}))

	e.Use(middleware.BodyLimit("1M"))

	e.Use(session.Middleware(sessions.NewCookieStore(cfg.CookieSecret)))

	// Pages
	e.GET("/", homePageHandler(cfg, store, now))
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// API
	e.GET("/api/entries", getEntries(cfg, store, now))
	e.POST("/api/entries", saveToday(store, now))
	e.GET("/api/export", exportEntries(store, now))
	e.POST("/api/import", importEntries(store, now))
	if cfg.AllowDummy {
		e.POST("/api/generate-dummy", generateDummy(store, gen, now))
	}

	return e
}

// sessionDays is the window the browser last asked for, if any.
func sessionDays(c echo.Context) (int, bool) {
	sess, err := session.Get(SessionKey, c)
	if err != nil {
		return 0, false
	}
	days, ok := sess.Values[SessionDaysKey].(int)
	return days, ok
}

func rememberDays(c echo.Context, days int) {
	sess, err := session.Get(SessionKey, c)
	if err != nil {
		logrus.Debug(errors.Wrap(err, "no session to remember days in"))
		return
	}
	sess.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   3600 * 24 * 365,
		HttpOnly: true,
	}
	sess.Values[SessionDaysKey] = days
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		logrus.Warn(errors.Wrap(err, "saving days preference"))
	}
}
