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

// Package zookeeper runs a single ephemeral ZooKeeper server for the kafka
// test kit. The client port is published on an OS-assigned loopback port so
// that concurrent harness instances never collide.
package zookeeper

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/go-zookeeper/zk"
	"github.com/paashzj/kafka_test_kit/pkg/docker"
	"github.com/paashzj/kafka_test_kit/pkg/utils"
	"github.com/sirupsen/logrus"
)

const clientPort = nat.Port("2181/tcp")

type Config struct {
	Image          string
	TickTime       int
	StartupTimeout time.Duration
}

type Server struct {
	env         *docker.Environment
	config      *Config
	alias       string
	containerId string
	port        int
}

func NewServer(env *docker.Environment, config *Config) *Server {
	return &Server{
		env:    env,
		config: config,
		alias:  "zookeeper-" + utils.RandomSuffix(),
	}
}

func (s *Server) Start(ctx context.Context) error {
	spec := &docker.ContainerSpec{
		Image:        s.config.Image,
		Name:         s.alias,
		NetworkAlias: s.alias,
		Env: []string{
			"ZOOKEEPER_CLIENT_PORT=2181",
			"ZOOKEEPER_TICK_TIME=" + strconv.Itoa(s.config.TickTime),
		},
		ExposedPort: clientPort,
		HostPort:    "0",
	}
	containerId, err := s.env.RunContainer(ctx, spec)
	if err != nil {
		return err
	}
	s.containerId = containerId
	port, err := s.env.MappedPort(ctx, containerId, clientPort)
	if err != nil {
		return err
	}
	s.port = port
	if err = s.waitReady(ctx); err != nil {
		return err
	}
	logrus.Infof("zookeeper test server started at %s", s.ConnectString())
	return nil
}

func (s *Server) waitReady(ctx context.Context) error {
	servers := []string{s.ConnectString()}
	return utils.WaitUntil(ctx, s.config.StartupTimeout, 500*time.Millisecond, func() bool {
		oks := zk.FLWRuok(servers, time.Second)
		return len(oks) == 1 && oks[0]
	}, "zookeeper did not answer ruok before the startup timeout")
}

// ConnectString is the host-visible client endpoint.
func (s *Server) ConnectString() string {
	return fmt.Sprintf("127.0.0.1:%d", s.port)
}

// BrokerConnectString is the endpoint the broker container dials, reachable
// only on the harness docker network.
func (s *Server) BrokerConnectString() string {
	return s.alias + ":2181"
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
