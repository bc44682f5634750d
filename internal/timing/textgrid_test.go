package timing

import "testing"

const sampleTextGrid = `File type = "ooTextFile"
Object class = "TextGrid"

xmin = 0
xmax = 3
tiers? <exists>
size = 1
item []:
    item [1]:
        class = "IntervalTier"
        name = "words"
        xmin = 0
        xmax = 3
        intervals: size = 3
        intervals [1]:
            xmin = 0
            xmax = 1
            text = "hello"
        intervals [2]:
            xmin = 1
            xmax = 1.5
            text = ""
        intervals [3]:
            xmin = 1.5
            xmax = 3
            text = "world"
`

func TestParseTextGrid_WordsTier(t *testing.T) {
	g, err := ParseTextGrid([]byte(sampleTextGrid))
	if err != nil {
		t.Fatalf("ParseTextGrid: %v", err)
	}
	tier := g.WordsTier()
	if tier == nil {
		t.Fatal("expected a words tier")
	}
	if len(tier.Intervals) != 3 {
		t.Fatalf("expected 3 intervals, got %d", len(tier.Intervals))
	}
	if tier.Intervals[0].Text != "hello" || tier.Intervals[2].Text != "world" {
		t.Fatalf("unexpected interval texts: %+v", tier.Intervals)
	}
	if tier.Intervals[2].XMin != 1.5 || tier.Intervals[2].XMax != 3 {
		t.Fatalf("unexpected interval timing: %+v", tier.Intervals[2])
	}
}

func TestParseTextGrid_NoIntervalTierErrors(t *testing.T) {
	_, err := ParseTextGrid([]byte("xmin = 0\nxmax = 1\n"))
	if err == nil {
		t.Fatal("expected error for textgrid with no interval tiers")
	}
}
