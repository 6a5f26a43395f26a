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

// Package kafkatest spins up a ZooKeeper and a Kafka server for use in
// integration tests. Create a TestServer, call Start, and the test can
// produce to and consume from real Kafka topics. Be sure to call Close (or
// Shutdown) when the test is complete, usually with defer.
package kafkatest

import (
	"context"

	"github.com/paashzj/kafka_test_kit/pkg/broker"
	"github.com/paashzj/kafka_test_kit/pkg/docker"
	"github.com/paashzj/kafka_test_kit/pkg/utils"
	"github.com/paashzj/kafka_test_kit/pkg/zookeeper"
	"github.com/pkg/errors"
)

// CoordinationService is the coordination server the broker depends on.
type CoordinationService interface {
	Start(ctx context.Context) error
	// ConnectString is the host-visible client endpoint, valid after Start.
	ConnectString() string
	// BrokerConnectString is the endpoint the broker uses to reach the
	// coordination service. It can differ from ConnectString when the
	// services talk over a container network.
	BrokerConnectString() string
	Port() int
	Close() error
}

// BrokerService is the Kafka server under the harness.
type BrokerService interface {
	Start(ctx context.Context, coordinationConnect string) error
	// ConnectString is the advertised bootstrap endpoint, valid after Start.
	ConnectString() string
	Port() int
	Close() error
}

// TestServer owns one coordination service and one broker. It is meant for
// single-threaded, single-test ownership: one TestServer per test, no
// internal locking.
type TestServer struct {
	config       *Config
	env          *docker.Environment
	coordination CoordinationService
	broker       BrokerService

	customCoordination CoordinationService
	customBroker       BrokerService
}

// NewTestServer returns a harness backed by docker containers. A nil config
// selects all defaults.
func NewTestServer(config *Config) *TestServer {
	return &TestServer{config: withDefaults(config)}
}

// NewCustomTestServer returns a harness over caller-supplied services. The
// harness still owns their lifecycle: Start boots them in dependency order
// and Close stops them in reverse.
func NewCustomTestServer(config *Config, coordination CoordinationService, brokerService BrokerService) *TestServer {
	return &TestServer{
		config:             withDefaults(config),
		customCoordination: coordination,
		customBroker:       brokerService,
	}
}

// Start boots the coordination service, then the broker pointed at the
// coordination service's resolved endpoint. On failure nothing is rolled
// back; callers are expected to defer Close, which tolerates any subset of
// live handles.
func (s *TestServer) Start(ctx context.Context) error {
	if s.customCoordination != nil {
		s.coordination = s.customCoordination
		s.broker = s.customBroker
	} else {
		env, err := docker.NewEnvironment(ctx, "kafka-test-kit-"+utils.RandomSuffix())
		if err != nil {
			return err
		}
		s.env = env
		s.coordination = zookeeper.NewServer(env, &zookeeper.Config{
			Image:          s.config.ZookeeperImage,
			TickTime:       defaultTickTime,
			StartupTimeout: s.config.StartupTimeout,
		})
		s.broker = broker.NewServer(env, &broker.Config{
			Image:          s.config.KafkaImage,
			BrokerId:       s.config.BrokerId,
			StartupTimeout: s.config.StartupTimeout,
		})
	}
	if err := s.coordination.Start(ctx); err != nil {
		return errors.Wrap(err, "start coordination service")
	}
	if err := s.broker.Start(ctx, s.coordination.BrokerConnectString()); err != nil {
		return errors.Wrap(err, "start kafka broker")
	}
	return nil
}

// KafkaConnectString is the bootstrap endpoint of the broker. Only valid
// between a successful Start and the next Close; outside that window the
// handle is nil and this panics.
func (s *TestServer) KafkaConnectString() string {
	return s.broker.ConnectString()
}

// ZookeeperConnectString is the client endpoint of the coordination service.
// Same lifecycle window as KafkaConnectString.
func (s *TestServer) ZookeeperConnectString() string {
	return s.coordination.ConnectString()
}

// Close stops the broker first, then the coordination service, then the
// docker environment. Every handle is nulled after stopping, so repeated
// calls are no-ops and a partially started harness tears down cleanly.
func (s *TestServer) Close() error {
	var firstErr error
	if s.broker != nil {
		if err := s.broker.Close(); err != nil && firstErr == nil {
			firstErr = errors.Wrap(err, "stop kafka broker")
		}
		s.broker = nil
	}
	if s.coordination != nil {
		if err := s.coordination.Close(); err != nil && firstErr == nil {
			firstErr = errors.Wrap(err, "stop coordination service")
		}
		s.coordination = nil
	}
	if s.env != nil {
		if err := s.env.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		s.env = nil
	}
	return firstErr
}

// Shutdown is an alias for Close.
func (s *TestServer) Shutdown() error {
	return s.Close()
}
