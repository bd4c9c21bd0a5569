package mcp

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/devbridge/devbridge/internal/adb"
	"github.com/devbridge/devbridge/internal/core"
)

type DeviceListResult struct {
	Devices []adb.Device `json:"devices"`
	Count   int          `json:"count"`
}

type BugreportResult struct {
	Serial    string `json:"serial"`
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
}

func (s *Server) devicesListTool() mcp.Tool {
	return mcp.NewTool("adb_devices_list",
		mcp.WithDescription("List Android devices connected via adb"),
		mcp.WithOutputSchema[DeviceListResult](),
	)
}

func (s *Server) handleDevicesList(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	devices, _, err := s.adb.Devices(ctx)
	if err != nil {
		return s.errResult("adb_devices_list", err), nil
	}

	result := DeviceListResult{Devices: devices, Count: len(devices)}
	summary := fmt.Sprintf("%d device(s) connected", result.Count)
	return mcp.NewToolResultStructured(result, summary), nil
}

func (s *Server) bugreportTool() mcp.Tool {
	return mcp.NewTool("adb_bugreport",
		mcp.WithDescription("Capture a bugreport from a connected device into the bugreports directory"),
		mcp.WithString("serial",
			mcp.Required(),
			mcp.Description("Device serial as reported by adb_devices_list"),
		),
		mcp.WithOutputSchema[BugreportResult](),
	)
}

func (s *Server) handleBugreport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	serial, err := req.RequireString("serial")
	if err != nil {
		return s.errResult("adb_bugreport", core.WrapError(core.CodeInvalidArgument, err)), nil
	}
	serial = strings.TrimSpace(serial)
	if serial == "" {
		return s.errResult("adb_bugreport",
			core.NewError(core.CodeInvalidArgument, "serial must be a non-empty string")), nil
	}

	path, err := s.store.BugreportPath(serial, time.Now())
	if err != nil {
		return s.errResult("adb_bugreport", err), nil
	}

	if _, err := s.adb.Bugreport(ctx, serial, path); err != nil {
		// The adapter has already removed the partial output file.
		return s.errResult("adb_bugreport", err), nil
	}

	result := BugreportResult{Serial: serial, Path: path}
	if info, statErr := os.Stat(path); statErr == nil {
		result.SizeBytes = info.Size()
	}
	summary := fmt.Sprintf("Bugreport for %s saved to %s (%d bytes)", serial, path, result.SizeBytes)
	return mcp.NewToolResultStructured(result, summary), nil
}
