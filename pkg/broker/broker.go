// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package broker runs a single ephemeral Kafka broker for the kafka test
// kit, tuned for test weight: one node, immediate log flush, all internal
// replication factors forced to 1 and auto topic creation enabled.
package broker

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/paashzj/kafka_test_kit/pkg/docker"
	"github.com/paashzj/kafka_test_kit/pkg/utils"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/twmb/franz-go/pkg/kgo"
)

// The broker carries two listeners: PLAINTEXT is published to the host for
// test clients, BROKER stays on the docker network for the broker itself.
const (
	externalPort = nat.Port("9093/tcp")
	internalPort = 9092

	zookeeperSessionTimeoutMs = 30000
)

type Config struct {
	Image          string
	BrokerId       int
	StartupTimeout time.Duration
}

type Server struct {
	env         *docker.Environment
	config      *Config
	alias       string
	containerId string
	port        int
	logDir      string
}

func NewServer(env *docker.Environment, config *Config) *Server {
	return &Server{
		env:    env,
		config: config,
		alias:  "kafka-" + utils.RandomSuffix(),
	}
}

// Start boots the broker pointed at coordinationConnect. The host port has to
// be known before boot because it is baked into the advertised listeners, so
// it is acquired up front instead of being OS-assigned at publish time.
func (s *Server) Start(ctx context.Context, coordinationConnect string) error {
	port, err := utils.AcquireUnusedPort()
	if err != nil {
		return errors.Wrap(err, "acquire broker port")
	}
	s.port = port
	s.logDir = "/tmp/kafka-logs-" + utils.RandomSuffix()
	spec := &docker.ContainerSpec{
		Image:        s.config.Image,
		Name:         s.alias,
		NetworkAlias: s.alias,
		Env:          s.brokerEnv(coordinationConnect),
		ExposedPort:  externalPort,
		HostPort:     strconv.Itoa(port),
	}
	containerId, err := s.env.RunContainer(ctx, spec)
	if err != nil {
		return err
	}
	s.containerId = containerId
	if err = s.waitReady(ctx); err != nil {
		return err
	}
	logrus.Infof("kafka test server started at %s", s.ConnectString())
	return nil
}

func (s *Server) brokerEnv(coordinationConnect string) []string {
	advertised := fmt.Sprintf("PLAINTEXT://127.0.0.1:%d,BROKER://%s:%d", s.port, s.alias, internalPort)
	return []string{
		"KAFKA_BROKER_ID=" + strconv.Itoa(s.config.BrokerId),
		"KAFKA_ZOOKEEPER_CONNECT=" + coordinationConnect,
		"KAFKA_ZOOKEEPER_SESSION_TIMEOUT_MS=" + strconv.Itoa(zookeeperSessionTimeoutMs),
		"KAFKA_LISTENERS=PLAINTEXT://0.0.0.0:9093,BROKER://0.0.0.0:9092",
		"KAFKA_ADVERTISED_LISTENERS=" + advertised,
		"KAFKA_LISTENER_SECURITY_PROTOCOL_MAP=PLAINTEXT:PLAINTEXT,BROKER:PLAINTEXT",
		"KAFKA_INTER_BROKER_LISTENER_NAME=BROKER",
		"KAFKA_NUM_IO_THREADS=2",
		"KAFKA_NUM_NETWORK_THREADS=2",
		"KAFKA_LOG_FLUSH_INTERVAL_MESSAGES=1",
		"KAFKA_LOG_DIRS=" + s.logDir,
		"KAFKA_OFFSETS_TOPIC_REPLICATION_FACTOR=1",
		"KAFKA_TRANSACTION_STATE_LOG_REPLICATION_FACTOR=1",
		"KAFKA_TRANSACTION_STATE_LOG_MIN_ISR=1",
		"KAFKA_DEFAULT_REPLICATION_FACTOR=1",
		"KAFKA_AUTO_CREATE_TOPICS_ENABLE=true",
	}
}

func (s *Server) waitReady(ctx context.Context) error {
	return utils.WaitUntil(ctx, s.config.StartupTimeout, time.Second, func() bool {
		cl, err := kgo.NewClient(kgo.SeedBrokers(s.ConnectString()))
		if err != nil {
			return false
		}
		defer cl.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		return cl.Ping(pingCtx) == nil
	}, "kafka broker did not become reachable before the startup timeout")
}

// ConnectString is the advertised host-visible bootstrap endpoint.
func (s *Server) ConnectString() string {
	return fmt.Sprintf("127.0.0.1:%d", s.port)
}

func (s *Server) Port() int {
	return s.port
}

func (s *Server) Close() error {
	if s.containerId == "" {
		return nil
	}
	err := s.env.RemoveContainer(s.containerId)
	s.containerId = ""
	return err
}
