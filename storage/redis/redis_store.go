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

// Package redis is a remote storage backend over a Redis server.
package redis

import (
	"github.com/go-redis/redis"

	"github.com/bbva/merkletree/storage"
)

type RedisStore struct {
	client    *redis.Client
	namespace string
}

// Options contains the configuration used to connect to Redis.
type Options struct {
	Addr     string
	Password string
	DB       int

	// Namespace prefixes every key so several trees can share a server.
	Namespace string
}

func NewRedisStore(addr string) (*RedisStore, error) {
	return NewRedisStoreOpts(&Options{Addr: addr})
}

func NewRedisStoreOpts(opts *Options) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping().Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &RedisStore{client: client, namespace: opts.Namespace}, nil
}

// Mutate sends every mutation inside a MULTI/EXEC block.
func (s *RedisStore) Mutate(mutations []*storage.Mutation) error {
	_, err := s.client.TxPipelined(func(pipe redis.Pipeliner) error {
		for _, m := range mutations {
			pipe.Set(s.key(m.Table, m.Key), m.Value, 0)
		}
		return nil
	})
	return err
}

func (s *RedisStore) Get(table storage.Table, key []byte) (*storage.KVPair, error) {
	value, err := s.client.Get(s.key(table, key)).Bytes()
	if err == redis.Nil {
		return nil, storage.ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &storage.KVPair{Key: key, Value: value}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) key(table storage.Table, key []byte) string {
	return s.namespace + string(storage.PrefixedKey(table, key))
}
