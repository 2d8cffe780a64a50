// Copyright (c) 2024 The Epollhttp Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

//go:build linux

package socket

import (
	"net"
	"os"

	"golang.org/x/sys/unix"

	"github.com/epollhttp/epollhttp/pkg/errors"
)

var listenerBacklogMaxSize = maxListenerBacklog()

func getTCPSockaddr(proto, addr string) (sa unix.Sockaddr, family int, ipv6only bool, err error) {
	tcpAddr, err := net.ResolveTCPAddr(proto, addr)
	if err != nil {
		return
	}

	tcpVersion, err := determineTCPProto(proto, tcpAddr)
	if err != nil {
		return
	}

	switch tcpVersion {
	case "tcp4":
		sa4 := &unix.SockaddrInet4{Port: tcpAddr.Port}
		if ip4 := tcpAddr.IP.To4(); ip4 != nil {
			copy(sa4.Addr[:], ip4)
		}
		sa, family = sa4, unix.AF_INET
	case "tcp6":
		ipv6only = true
		fallthrough
	case "tcp":
		sa6 := &unix.SockaddrInet6{Port: tcpAddr.Port}
		if tcpAddr.IP != nil {
			copy(sa6.Addr[:], tcpAddr.IP.To16())
		}
		if tcpAddr.Zone != "" {
			var iface *net.Interface
			if iface, err = net.InterfaceByName(tcpAddr.Zone); err != nil {
				return
			}
			sa6.ZoneId = uint32(iface.Index)
		}
		sa, family = sa6, unix.AF_INET6
	default:
		err = errors.ErrUnsupportedProtocol
	}

	return
}

func determineTCPProto(proto string, addr *net.TCPAddr) (string, error) {
	// A bare "tcp" is narrowed down by the size of the resolved IP address.
	if addr.IP.To4() != nil {
		return "tcp4", nil
	}

	if addr.IP.To16() != nil {
		return "tcp6", nil
	}

	switch proto {
	case "tcp", "tcp4", "tcp6":
		return proto, nil
	}

	return "", errors.ErrUnsupportedProtocol
}

func tcpSocket(proto, addr string, sockopts ...Option) (fd int, netAddr net.Addr, err error) {
	var (
		family   int
		ipv6only bool
		sockaddr unix.Sockaddr
	)

	if sockaddr, family, ipv6only, err = getTCPSockaddr(proto, addr); err != nil {
		return
	}

	if fd, err = sysSocket(family, unix.SOCK_STREAM, unix.IPPROTO_TCP); err != nil {
		err = os.NewSyscallError("socket", err)
		return
	}
	defer func() {
		if err != nil {
			_ = unix.Close(fd)
		}
	}()

	if family == unix.AF_INET6 && ipv6only {
		if err = SetIPv6Only(fd, 1); err != nil {
			return
		}
	}

	for _, sockopt := range sockopts {
		if err = sockopt.SetSockopt(fd, sockopt.Opt); err != nil {
			return
		}
	}

	if err = os.NewSyscallError("bind", unix.Bind(fd, sockaddr)); err != nil {
		return
	}

	// Set backlog size to the maximum.
	if err = os.NewSyscallError("listen", unix.Listen(fd, listenerBacklogMaxSize)); err != nil {
		return
	}

	// Resolve ephemeral ports.
	bound, err := unix.Getsockname(fd)
	if err != nil {
		err = os.NewSyscallError("getsockname", err)
		return
	}
	netAddr = SockaddrToTCPAddr(bound)

	return
}
