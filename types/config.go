package types

import (
	errs "errors"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/oliverisaac/goli"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	ListenAddr      string
	DBDriver        string
	DBPath          string
	DBDSN           string
	CookieSecret    []byte
	DefaultDays     int
	MaxDays         int
	SeedDays        int
	SeedProbability float64
	AllowDummy      bool
}

func ConfigFromEnv() (Config, error) {
	ret := Config{}
	var retErr error
	var err error

	ret.ListenAddr = goli.DefaultEnv("MOODSIGNAGE_LISTEN", ":5001")

	ret.DBDriver = strings.ToLower(goli.DefaultEnv("MOODSIGNAGE_DB_DRIVER", DriverSQLite))
	switch ret.DBDriver {
	case DriverSQLite:
		ret.DBPath = goli.DefaultEnv("MOODSIGNAGE_DB_PATH", "mood.db")
		if _, err := os.Stat(path.Dir(ret.DBPath)); err != nil {
			retErr = errs.Join(retErr, errors.Wrap(err, "Directory for MOODSIGNAGE_DB_PATH must exist"))
		}
	case DriverPostgres:
		var ok bool
		ret.DBDSN, ok = os.LookupEnv("MOODSIGNAGE_DB_DSN")
		if !ok || ret.DBDSN == "" {
			retErr = errs.Join(retErr, fmt.Errorf("You must define env MOODSIGNAGE_DB_DSN when using the postgres driver"))
		}
	default:
		retErr = errs.Join(retErr, fmt.Errorf("unknown MOODSIGNAGE_DB_DRIVER %q, want %s or %s", ret.DBDriver, DriverSQLite, DriverPostgres))
	}

	cookieSecret, ok := os.LookupEnv("MOODSIGNAGE_COOKIE_STORE_SECRET")
	if !ok {
		retErr = errs.Join(retErr, fmt.Errorf("You must define env MOODSIGNAGE_COOKIE_STORE_SECRET"))
	} else {
		ret.CookieSecret = []byte(cookieSecret)
	}

	ret.DefaultDays, err = strconv.Atoi(goli.DefaultEnv("MOODSIGNAGE_DEFAULT_DAYS", "14"))
	if err != nil {
		retErr = errs.Join(retErr, errors.Wrap(err, "parsing MOODSIGNAGE_DEFAULT_DAYS"))
	}

	ret.MaxDays, err = strconv.Atoi(goli.DefaultEnv("MOODSIGNAGE_MAX_DAYS", "3660"))
	if err != nil {
		retErr = errs.Join(retErr, errors.Wrap(err, "parsing MOODSIGNAGE_MAX_DAYS"))
	}

	ret.SeedDays, err = strconv.Atoi(goli.DefaultEnv("MOODSIGNAGE_SEED_DAYS", "91"))
	if err != nil {
		retErr = errs.Join(retErr, errors.Wrap(err, "parsing MOODSIGNAGE_SEED_DAYS"))
	}

	ret.SeedProbability, err = strconv.ParseFloat(goli.DefaultEnv("MOODSIGNAGE_SEED_PROBABILITY", "0.8"), 64)
	if err != nil {
		retErr = errs.Join(retErr, errors.Wrap(err, "parsing MOODSIGNAGE_SEED_PROBABILITY"))
	} else if ret.SeedProbability < 0 || ret.SeedProbability > 1 {
		retErr = errs.Join(retErr, fmt.Errorf("MOODSIGNAGE_SEED_PROBABILITY must be within [0, 1], got %v", ret.SeedProbability))
	}

	ret.AllowDummy, err = strconv.ParseBool(goli.DefaultEnv("MOODSIGNAGE_ALLOW_DUMMY", "true"))
	if err != nil {
		retErr = errs.Join(retErr, errors.Wrap(err, "parsing MOODSIGNAGE_ALLOW_DUMMY"))
	}

	if ret.DefaultDays < 1 || ret.MaxDays < 1 || ret.SeedDays < 1 {
		retErr = errs.Join(retErr, fmt.Errorf("day counts must be positive"))
	} else if ret.DefaultDays > ret.MaxDays {
		retErr = errs.Join(retErr, fmt.Errorf("MOODSIGNAGE_DEFAULT_DAYS (%d) exceeds MOODSIGNAGE_MAX_DAYS (%d)", ret.DefaultDays, ret.MaxDays))
	}

	logrus.Infof("Using %s database, default window %d days (max %d)", ret.DBDriver, ret.DefaultDays, ret.MaxDays)

	return ret, retErr
}
