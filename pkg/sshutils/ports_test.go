package sshutils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skiffworks/skiff/pkg/models"
)

func machineWithAdapters(adapters ...models.NetworkAdapter) *models.Machine {
	return &models.Machine{
		Name: "default",
		SSH: models.SSHSettings{
			ForwardedPortKey:         "ssh",
			ForwardedPortDestination: 22,
		},
		Adapters: adapters,
	}
}

func TestResolvePort(t *testing.T) {
	tests := []struct {
		name     string
		override int
		machine  *models.Machine
		want     int
		wantErr  bool
	}{
		{
			name:     "explicit override wins over everything",
			override: 2200,
			machine: func() *models.Machine {
				m := machineWithAdapters(models.NetworkAdapter{
					ForwardedPorts: []models.ForwardedPort{{Name: "ssh", GuestPort: 22, HostPort: 2222}},
				})
				m.SSH.Port = 2022
				return m
			}(),
			want: 2200,
		},
		{
			name: "static port wins over discovery",
			machine: func() *models.Machine {
				m := machineWithAdapters(models.NetworkAdapter{
					ForwardedPorts: []models.ForwardedPort{{Name: "ssh", GuestPort: 22, HostPort: 2222}},
				})
				m.SSH.Port = 2022
				return m
			}(),
			want: 2022,
		},
		{
			name: "name match on single adapter",
			machine: machineWithAdapters(models.NetworkAdapter{
				ForwardedPorts: []models.ForwardedPort{{Name: "ssh", GuestPort: 22, HostPort: 2222}},
			}),
			want: 2222,
		},
		{
			name: "name match beats earlier destination match",
			machine: machineWithAdapters(
				models.NetworkAdapter{
					ForwardedPorts: []models.ForwardedPort{{Name: "web", GuestPort: 22, HostPort: 8022}},
				},
				models.NetworkAdapter{
					ForwardedPorts: []models.ForwardedPort{{Name: "ssh", GuestPort: 2022, HostPort: 2222}},
				},
			),
			want: 2222,
		},
		{
			name: "first name match wins and short-circuits",
			machine: machineWithAdapters(
				models.NetworkAdapter{
					ForwardedPorts: []models.ForwardedPort{{Name: "ssh", GuestPort: 22, HostPort: 2222}},
				},
				models.NetworkAdapter{
					ForwardedPorts: []models.ForwardedPort{{Name: "ssh", GuestPort: 22, HostPort: 2322}},
				},
			),
			want: 2222,
		},
		{
			name: "destination fallback when no name matches",
			machine: machineWithAdapters(
				models.NetworkAdapter{
					ForwardedPorts: []models.ForwardedPort{{Name: "web", GuestPort: 80, HostPort: 8080}},
				},
				models.NetworkAdapter{
					ForwardedPorts: []models.ForwardedPort{{Name: "guestd", GuestPort: 22, HostPort: 2522}},
				},
			),
			want: 2522,
		},
		{
			name: "first destination match wins",
			machine: machineWithAdapters(
				models.NetworkAdapter{
					ForwardedPorts: []models.ForwardedPort{
						{Name: "a", GuestPort: 22, HostPort: 2522},
						{Name: "b", GuestPort: 22, HostPort: 2622},
					},
				},
			),
			want: 2522,
		},
		{
			name:    "no match at all",
			machine: machineWithAdapters(models.NetworkAdapter{
				ForwardedPorts: []models.ForwardedPort{{Name: "web", GuestPort: 80, HostPort: 8080}},
			}),
			wantErr: true,
		},
		{
			name:    "no adapters",
			machine: machineWithAdapters(),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			port, err := ResolvePort(tt.override, tt.machine)
			if tt.wantErr {
				assert.Error(t, err)
				assert.IsType(t, &PortNotDetectedError{}, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, port)
		})
	}
}
