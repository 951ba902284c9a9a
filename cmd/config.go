/*
   Copyright 2018-2019 Banco Bilbao Vizcaya Argentaria, S.A.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	v "github.com/spf13/viper"

	"github.com/bbva/merkletree/crypto/hashing"
	"github.com/bbva/merkletree/log"
	"github.com/bbva/merkletree/merkle"
	"github.com/bbva/merkletree/storage"
	"github.com/bbva/merkletree/storage/badger"
	"github.com/bbva/merkletree/storage/bolt"
	"github.com/bbva/merkletree/storage/bplus"
	"github.com/bbva/merkletree/storage/cache"
	"github.com/bbva/merkletree/storage/pebble"
	"github.com/bbva/merkletree/storage/redis"
	"github.com/bbva/merkletree/storage/sql"
)

const (
	envPrefix         = "merkletree"
	defaultConfigFile = "~/.merkletree.yaml"
)

var ErrUnknownStorage = errors.New("unknown storage")

type Config struct {
	Depth      uint   `flag:"depth" desc:"Depth of the tree, between 1 and 63"`
	Hasher     string `flag:"hasher" desc:"Hash function: blake2b, blake3, keccak256, mimc or sha256"`
	Storage    string `flag:"storage" desc:"Storage backend: bplus, badger, bolt, pebble, sqlite, postgres or redis"`
	DBPath     string `flag:"db-path" desc:"Path of the embedded database (badger, bolt, pebble, sqlite)"`
	DSN        string `flag:"dsn" desc:"Database connection string (postgres, or sqlite when set)"`
	RedisAddr  string `flag:"redis-addr" desc:"Address of the redis server (host:port)"`
	Cache      string `flag:"cache" desc:"Node cache in front of the store: none, fast, free or lru"`
	CacheSize  int    `flag:"cache-size" desc:"Cache size, in bytes for fast and free, in nodes for lru"`
	Log        string `flag:"log" desc:"Set log level to off, error, warn, info or debug"`
	ConfigFile string `flag:"config" desc:"Path of the YAML config file"`
}

func DefaultConfig() *Config {
	return &Config{
		Depth:      32,
		Hasher:     hashing.Keccak256,
		Storage:    "badger",
		DBPath:     "/var/tmp/merkletree.db",
		RedisAddr:  "localhost:6379",
		Cache:      cache.None,
		CacheSize:  1 << 25,
		Log:        "error",
		ConfigFile: defaultConfigFile,
	}
}

type cmdContext struct {
	config *Config
	viper  *v.Viper
	log    log.Logger
}

// load merges the config file and the environment into the flags. Flags
// set on the command line win, then the environment, then the file.
func (c *cmdContext) load(flags *pflag.FlagSet) error {
	c.viper.SetEnvPrefix(envPrefix)
	c.viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.viper.AutomaticEnv()
	if err := c.viper.BindPFlags(flags); err != nil {
		return err
	}

	path := c.viper.GetString("config")
	explicit := path != defaultConfigFile
	expanded, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("resolving config file %s: %w", path, err)
	}
	if _, err := os.Stat(expanded); err == nil || explicit {
		c.viper.SetConfigFile(expanded)
		if err := c.viper.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", expanded, err)
		}
	}

	conf := c.config
	conf.Depth = uint(c.viper.GetInt("depth"))
	conf.Hasher = c.viper.GetString("hasher")
	conf.Storage = c.viper.GetString("storage")
	conf.DBPath = c.viper.GetString("db-path")
	conf.DSN = c.viper.GetString("dsn")
	conf.RedisAddr = c.viper.GetString("redis-addr")
	conf.Cache = c.viper.GetString("cache")
	conf.CacheSize = c.viper.GetInt("cache-size")
	conf.Log = c.viper.GetString("log")
	conf.ConfigFile = expanded

	c.log = log.New(&log.LoggerOptions{
		Name:            "merkletree",
		IncludeLocation: true,
		Level:           log.LevelFromString(conf.Log),
		Output:          log.DefaultOutput,
		TimeFormat:      log.DefaultTimeFormat,
	})
	log.SetDefault(c.log)
	return nil
}

func (c *cmdContext) hasher() (hashing.Hasher, error) {
	return hashing.New(c.config.Hasher)
}

func (c *cmdContext) openStore() (merkle.Store, error) {
	conf := c.config
	switch conf.Storage {
	case "bplus":
		return storage.NewNodes(bplus.NewBPlusTreeStore()), nil
	case "badger":
		store, err := badger.NewBadgerStoreOpts(&badger.Options{
			Path:       conf.DBPath,
			ValueLogGC: true,
			Logger:     c.log,
		})
		if err != nil {
			return nil, err
		}
		return storage.NewNodes(store), nil
	case "bolt":
		store, err := bolt.NewBoltStore(conf.DBPath)
		if err != nil {
			return nil, err
		}
		return storage.NewNodes(store), nil
	case "pebble":
		store, err := pebble.NewPebbleStore(conf.DBPath)
		if err != nil {
			return nil, err
		}
		return storage.NewNodes(store), nil
	case "sqlite":
		dsn := conf.DSN
		if dsn == "" {
			dsn = "sqlite://" + conf.DBPath
		}
		return sql.NewSQLStoreOpts(&sql.Options{DSN: dsn, Logger: c.log})
	case "postgres":
		if conf.DSN == "" {
			return nil, errors.New("argument `dsn` is required for postgres")
		}
		return sql.NewSQLStoreOpts(&sql.Options{DSN: conf.DSN, Logger: c.log})
	case "redis":
		store, err := redis.NewRedisStore(conf.RedisAddr)
		if err != nil {
			return nil, err
		}
		return storage.NewNodes(store), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStorage, conf.Storage)
	}
}

// openTree opens the configured tree. The caller closes it.
func (c *cmdContext) openTree() (*merkle.Tree, error) {
	conf := c.config
	if conf.Depth == 0 || conf.Depth > merkle.MaxDepth {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", merkle.ErrInvalidDepth, conf.Depth, merkle.MaxDepth)
	}
	hasher, err := c.hasher()
	if err != nil {
		return nil, err
	}
	nodeCache, err := cache.New(conf.Cache, conf.CacheSize)
	if err != nil {
		return nil, err
	}

	store, err := c.openStore()
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", conf.Storage, err)
	}
	if nodeCache != nil {
		store = cache.NewStore(store, nodeCache)
	}

	tree, err := merkle.NewTree(uint16(conf.Depth), hasher, store, merkle.SetLogger(c.log.Named("merkle")))
	if err != nil {
		closeStore(store)
		return nil, err
	}
	c.log.Debugf("Opened %s tree of depth %d on %s with %d leaves", conf.Hasher, conf.Depth, conf.Storage, tree.NumLeaves())
	return tree, nil
}

// withTree runs fn over the configured tree and closes it afterwards.
func (c *cmdContext) withTree(fn func(tree *merkle.Tree) error) error {
	tree, err := c.openTree()
	if err != nil {
		return err
	}
	err = fn(tree)
	if cerr := tree.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func closeStore(store merkle.Store) {
	if c, ok := store.(interface{ Close() error }); ok {
		_ = c.Close()
	}
}
