package pagination

import "testing"

func TestSlice(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	t.Run("full_pages", func(t *testing.T) {
		for _, page := range []int{1, 2} {
			resp := Slice(items, PageRequest{Page: page, Limit: 10})
			if len(resp.Data) != 10 {
				t.Errorf("page %d: expected 10 items, got %d", page, len(resp.Data))
			}
			if resp.Meta.TotalPages != 3 {
				t.Errorf("page %d: expected 3 total pages, got %d", page, resp.Meta.TotalPages)
			}
			if resp.Meta.TotalItems != 25 {
				t.Errorf("page %d: expected 25 total items, got %d", page, resp.Meta.TotalItems)
			}
		}
	})

	t.Run("last_partial_page", func(t *testing.T) {
		resp := Slice(items, PageRequest{Page: 3, Limit: 10})
		if len(resp.Data) != 5 {
			t.Errorf("expected 5 items on page 3, got %d", len(resp.Data))
		}
		if resp.Data[0] != 20 {
			t.Errorf("expected page 3 to start at item 20, got %d", resp.Data[0])
		}
	})

	t.Run("page_past_end", func(t *testing.T) {
		resp := Slice(items, PageRequest{Page: 4, Limit: 10})
		if len(resp.Data) != 0 {
			t.Errorf("expected empty page past the end, got %d items", len(resp.Data))
		}
	})

	t.Run("empty_input", func(t *testing.T) {
		resp := Slice([]int{}, PageRequest{Page: 1, Limit: 10})
		if len(resp.Data) != 0 || resp.Meta.TotalPages != 0 {
			t.Errorf("expected empty response, got %+v", resp.Meta)
		}
	})
}

func TestPageRequestDefaults(t *testing.T) {
	var req PageRequest
	req.Defaults()
	if req.Page != 1 || req.Limit != 10 {
		t.Errorf("expected defaults page=1 limit=10, got page=%d limit=%d", req.Page, req.Limit)
	}

	req = PageRequest{Page: 3, Limit: 50}
	req.Defaults()
	if req.Page != 3 || req.Limit != 50 {
		t.Error("expected explicit values to be kept")
	}
	if req.Offset() != 100 {
		t.Errorf("expected offset 100, got %d", req.Offset())
	}
}
