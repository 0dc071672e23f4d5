package clipboard

import "testing"

func fakeProbe(env map[string]string, tools map[string]bool, tty bool) Probe {
	return Probe{
		LookupEnv: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
		LookPath: func(tool string) bool { return tools[tool] },
		TTY:      func() bool { return tty },
	}
}

func TestDetectOrder(t *testing.T) {
	cases := []struct {
		name  string
		env   map[string]string
		tools map[string]bool
		tty   bool
		want  string
	}{
		{
			name: "wayland session",
			env:  map[string]string{"WAYLAND_DISPLAY": "wayland-0"},
			want: BackendWLR,
		},
		{
			name: "wayland beats x11 under xwayland",
			env:  map[string]string{"WAYLAND_DISPLAY": "wayland-0", "DISPLAY": ":0"},
			want: BackendWLR,
		},
		{
			name: "wayland socket without display name",
			env:  map[string]string{"WAYLAND_SOCKET": "3"},
			want: BackendWLR,
		},
		{
			name: "x11 session",
			env:  map[string]string{"DISPLAY": ":0"},
			want: BackendX11,
		},
		{
			name: "bare terminal",
			tty:  true,
			want: BackendOSC52,
		},
		{
			name: "x11 beats terminal",
			env:  map[string]string{"DISPLAY": ":0"},
			tty:  true,
			want: BackendX11,
		},
		{
			name:  "helper tool only",
			tools: map[string]bool{"xclip": true},
			want:  BackendExternal,
		},
		{
			name: "nothing available",
			want: BackendNull,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := detect(fakeProbe(tc.env, tc.tools, tc.tty))
			if got != tc.want {
				t.Fatalf("detect() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDetectIsDeterministic(t *testing.T) {
	p := fakeProbe(
		map[string]string{"WAYLAND_DISPLAY": "wayland-1", "DISPLAY": ":1"},
		map[string]bool{"xclip": true, "wl-copy": true},
		true,
	)
	first := detect(p)
	for i := 0; i < 10; i++ {
		if got := detect(p); got != first {
			t.Fatalf("detect() flipped from %q to %q", first, got)
		}
	}
}
