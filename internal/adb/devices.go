package adb

import (
	"context"
	"strings"
)

// Device is one row of `adb devices -l` output, parsed fresh on every call.
type Device struct {
	Serial string `json:"serial"`
	State  string `json:"state"`
	Model  string `json:"model"`
	Device string `json:"device"`
}

// Devices runs the enumeration command and parses its output.
func (r *Runner) Devices(ctx context.Context) ([]Device, Report, error) {
	report, err := r.Run(ctx, "devices", "-l")
	if err != nil {
		return nil, report, err
	}
	return ParseDevices(report.Stdout), report, nil
}

// Bugreport captures a bugreport for serial into the file at path,
// streaming stdout as it arrives.
func (r *Runner) Bugreport(ctx context.Context, serial, path string) (Report, error) {
	return r.RunToFile(ctx, path, "-s", serial, "bugreport")
}

// ParseDevices parses `adb devices -l` output. The header line and blank
// lines are skipped. Each remaining line is whitespace-split: serial, then
// connection state, then optional key:value tokens of which only model: and
// device: are recognized; unrecognized prefixes are ignored.
func ParseDevices(out string) []Device {
	devices := make([]Device, 0)
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "List of devices") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		d := Device{Serial: fields[0], State: fields[1]}
		for _, tok := range fields[2:] {
			switch {
			case strings.HasPrefix(tok, "model:"):
				d.Model = strings.TrimPrefix(tok, "model:")
			case strings.HasPrefix(tok, "device:"):
				d.Device = strings.TrimPrefix(tok, "device:")
			}
		}
		devices = append(devices, d)
	}
	return devices
}
