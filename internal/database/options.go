/*-------------------------------------------------------------------------
 *
 * OceanBase MCP Server
 *
 * Portions copyright (c) 2025, pgEdge, Inc.
 * This software is released under The PostgreSQL License
 *
 *-------------------------------------------------------------------------
 */

package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"oceanbase-mcp/internal/logging"
)

// ErrInvalidOptions is returned when config_options is not a JSON object
var ErrInvalidOptions = errors.New("invalid connection options")

// Options are the per-call connection options supplied as a JSON object
// string (the config_options tool parameter). Durations are in seconds.
type Options struct {
	PoolSize       int                    `json:"pool_size"`
	MaxOverflow    int                    `json:"max_overflow"`
	PoolRecycle    float64                `json:"pool_recycle"`
	PoolTimeout    float64                `json:"pool_timeout"`
	ConnectTimeout float64                `json:"connect_timeout"`
	ReadTimeout    float64                `json:"read_timeout"`
	WriteTimeout   float64                `json:"write_timeout"`
	Echo           bool                   `json:"echo"`
	ConnectArgs    map[string]interface{} `json:"connect_args"`
}

var knownOptionKeys = map[string]bool{
	"pool_size":       true,
	"max_overflow":    true,
	"pool_recycle":    true,
	"pool_timeout":    true,
	"connect_timeout": true,
	"read_timeout":    true,
	"write_timeout":   true,
	"echo":            true,
	"connect_args":    true,
}

// ParseOptions parses a config_options string. An empty string means {}.
func ParseOptions(raw string) (Options, error) {
	var opts Options
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return opts, nil
	}

	var generic map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &generic); err != nil {
		return opts, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if generic == nil {
		return opts, fmt.Errorf("%w: expected a JSON object", ErrInvalidOptions)
	}
	if err := json.Unmarshal([]byte(raw), &opts); err != nil {
		return opts, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	for key := range generic {
		if !knownOptionKeys[key] {
			logging.Debug("ignoring unknown connection option", "option", key)
		}
	}

	return opts, nil
}

// restrictedParams are driver options that widen what a connection may do.
// multiStatements would let one call smuggle statements past ValidateReadOnly.
var restrictedParams = map[string]bool{
	"multistatements":          true,
	"allowallfiles":            true,
	"allowcleartextpasswords":  true,
	"allowoldpasswords":        true,
	"allowfallbacktoplaintext": true,
}

func checkDriverParam(key string) error {
	if restrictedParams[strings.ToLower(key)] {
		return fmt.Errorf("%w: %s is not allowed", ErrInvalidOptions, key)
	}
	return nil
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

// applyDriverConfig copies timeouts and connect_args into the driver config
func (o Options) applyDriverConfig(cfg *mysql.Config) error {
	dial := o.ConnectTimeout
	if dial == 0 {
		dial = o.PoolTimeout
	}
	if dial > 0 {
		cfg.Timeout = seconds(dial)
	}
	if o.ReadTimeout > 0 {
		cfg.ReadTimeout = seconds(o.ReadTimeout)
	}
	if o.WriteTimeout > 0 {
		cfg.WriteTimeout = seconds(o.WriteTimeout)
	}

	for key, value := range o.ConnectArgs {
		switch key {
		case "connect_timeout", "read_timeout", "write_timeout":
			secs, ok := value.(float64)
			if !ok {
				return fmt.Errorf("%w: connect_args.%s must be a number", ErrInvalidOptions, key)
			}
			switch key {
			case "connect_timeout":
				cfg.Timeout = seconds(secs)
			case "read_timeout":
				cfg.ReadTimeout = seconds(secs)
			default:
				cfg.WriteTimeout = seconds(secs)
			}
		default:
			if err := checkDriverParam(key); err != nil {
				return err
			}
			cfg.Params[key] = fmt.Sprintf("%v", value)
		}
	}
	return nil
}

// applyPool configures the connection pool of an opened database
func (o Options) applyPool(db *sqlx.DB) {
	if o.PoolSize > 0 {
		db.SetMaxIdleConns(o.PoolSize)
		db.SetMaxOpenConns(o.PoolSize + max(o.MaxOverflow, 0))
	}
	if o.PoolRecycle > 0 {
		db.SetConnMaxLifetime(seconds(o.PoolRecycle))
	}
}
