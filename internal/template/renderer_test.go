package template

import "testing"

func TestRenderer_Render(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		vars map[string]string
		want string
	}{
		{
			name: "hash syntax",
			tmpl: "#{name}님 안녕하세요",
			vars: map[string]string{"name": "홍길동"},
			want: "홍길동님 안녕하세요",
		},
		{
			name: "brace syntax",
			tmpl: "{{name}}님, {{tour_name}} 안내입니다",
			vars: map[string]string{"name": "홍길동", "tour_name": "태국 치앙마이 골프"},
			want: "홍길동님, 태국 치앙마이 골프 안내입니다",
		},
		{
			name: "mixed syntaxes in one template",
			tmpl: "#{name}님 {{tour_name}} 출발일은 #{departure_date}입니다",
			vars: map[string]string{
				"name":           "김철수",
				"tour_name":      "베트남 다낭",
				"departure_date": "2024-03-01",
			},
			want: "김철수님 베트남 다낭 출발일은 2024-03-01입니다",
		},
		{
			name: "repeated placeholder replaced everywhere",
			tmpl: "#{name}님, #{name}님께 안내드립니다",
			vars: map[string]string{"name": "홍길동"},
			want: "홍길동님, 홍길동님께 안내드립니다",
		},
		{
			name: "unknown placeholder left verbatim",
			tmpl: "#{name}님의 #{unknown_field}",
			vars: map[string]string{"name": "홍길동"},
			want: "홍길동님의 #{unknown_field}",
		},
		{
			name: "no placeholders is idempotent",
			tmpl: "일반 안내 문자입니다",
			vars: map[string]string{"name": "홍길동"},
			want: "일반 안내 문자입니다",
		},
		{
			name: "empty template",
			tmpl: "",
			vars: map[string]string{"name": "홍길동"},
			want: "",
		},
		{
			name: "nil vars leaves everything verbatim",
			tmpl: "#{name}님",
			vars: nil,
			want: "#{name}님",
		},
		{
			name: "empty value replaces with empty string",
			tmpl: "#{name}님",
			vars: map[string]string{"name": ""},
			want: "님",
		},
		{
			name: "malformed placeholder untouched",
			tmpl: "#{name님 {{tour_name님",
			vars: map[string]string{"name": "홍길동", "tour_name": "다낭"},
			want: "#{name님 {{tour_name님",
		},
		{
			name: "single braces are not a placeholder",
			tmpl: "{name}님",
			vars: map[string]string{"name": "홍길동"},
			want: "{name}님",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRenderer()
			got := r.Render(tt.tmpl, tt.vars)
			if got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderer_ExtractPlaceholders(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		want []string
	}{
		{
			name: "hash placeholders",
			tmpl: "#{name}님 #{tour_name}",
			want: []string{"name", "tour_name"},
		},
		{
			name: "brace placeholders",
			tmpl: "{{name}} {{amount}}",
			want: []string{"name", "amount"},
		},
		{
			name: "both syntaxes",
			tmpl: "#{name} {{tour_name}}",
			want: []string{"name", "tour_name"},
		},
		{
			name: "no placeholders",
			tmpl: "일반 문자",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRenderer()
			got := r.ExtractPlaceholders(tt.tmpl)
			if len(got) != len(tt.want) {
				t.Fatalf("ExtractPlaceholders() returned %d names, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ExtractPlaceholders()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func BenchmarkRenderer_Render(b *testing.B) {
	r := NewRenderer()
	tmpl := "#{name}님, {{tour_name}} 출발일 #{departure_date}, 결제금액 #{amount}원"
	vars := map[string]string{
		"name":           "홍길동",
		"tour_name":      "태국 치앙마이 골프 3박5일",
		"departure_date": "2024-03-01",
		"amount":         "1,890,000",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.Render(tmpl, vars)
	}
}
