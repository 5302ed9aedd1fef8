package chat

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"dining-assistant/internal/core/menu"
	"dining-assistant/internal/pkg/common"
)

// demoPrefix 示範模式回覆的前綴，讓降級輸出在逐字稿中可辨識
const demoPrefix = "(demo) "

const demoItemLimit = 3

// demoFollowUps 無法歸類的提問使用的固定追問清單
var demoFollowUps = []string{
	"What type of cuisine are you in the mood for?",
	"Do you have any dietary restrictions?",
	"What's your preferred price range?",
}

// DemoResponder 示範模式的本地回覆產生器，以目錄內容與偏好合成
// 確定性的回覆，永不失敗
type DemoResponder struct {
	menu *menu.Service
}

// NewDemoResponder 創建示範模式回覆產生器
func NewDemoResponder(menuService *menu.Service) *DemoResponder {
	return &DemoResponder{menu: menuService}
}

// Reply 依訊息內容與偏好合成回覆
func (d *DemoResponder) Reply(text string, profile common.PreferenceProfile) string {
	if d.menu == nil {
		return demoPrefix + followUpFor(text)
	}

	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, "recommend", "suggest", "what should"):
		return demoPrefix + d.recommendations(profile)
	case containsAny(lower, "allerg", "safe to eat"):
		return demoPrefix + d.allergies(profile)
	case containsAny(lower, "price", "cheap", "budget", "cost"):
		return demoPrefix + d.budget(profile)
	case containsAny(lower, "spice", "spicy", "mild", "hot"):
		return demoPrefix + d.spice(lower, profile)
	default:
		return demoPrefix + followUpFor(text)
	}
}

func (d *DemoResponder) recommendations(profile common.PreferenceProfile) string {
	ranked := d.menu.Recommend(profile, demoItemLimit)
	if len(ranked) == 0 {
		return "I couldn't find menu items matching your current preferences. Try widening the price range or raising the spice limit."
	}

	lines := make([]string, 0, len(ranked))
	for _, r := range ranked {
		lines = append(lines, common.FormatItemLine(r.Item))
	}
	return fmt.Sprintf("Based on your preferences, I'd recommend %s. Would you like to hear more options?", common.JoinList(lines))
}

func (d *DemoResponder) allergies(profile common.PreferenceProfile) string {
	if len(profile.Allergies) == 0 {
		return fmt.Sprintf("Tell me which allergies to watch for and I'll screen the menu. I recognize: %s.", common.JoinList(menu.CanonicalAllergens()))
	}

	safe := d.menu.Browse(profile)
	return fmt.Sprintf("I'm screening the menu for your allergies (%s). %d dishes currently pass the screen; ask me for recommendations to see the best matches.", common.JoinList(profile.Allergies), len(safe))
}

func (d *DemoResponder) budget(profile common.PreferenceProfile) string {
	items := d.survivors(profile)
	if len(items) == 0 {
		return "Nothing on the menu fits your current price range. Try raising the upper bound."
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Price < items[j].Price
	})
	return fmt.Sprintf("The most budget-friendly picks are %s.", common.JoinList(formatItems(items, demoItemLimit)))
}

func (d *DemoResponder) spice(lower string, profile common.PreferenceProfile) string {
	items := d.survivors(profile)
	if len(items) == 0 {
		return "Nothing on the menu fits your current spice limit. Try raising it."
	}

	if strings.Contains(lower, "mild") {
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].SpiceLevel < items[j].SpiceLevel
		})
		return fmt.Sprintf("The mildest options are %s.", common.JoinList(formatItems(items, demoItemLimit)))
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].SpiceLevel > items[j].SpiceLevel
	})
	return fmt.Sprintf("The spiciest options within your limit are %s.", common.JoinList(formatItems(items, demoItemLimit)))
}

// survivors 取得通過硬性過濾的項目複本，排序不影響目錄快照
func (d *DemoResponder) survivors(profile common.PreferenceProfile) []common.MenuItem {
	ranked := d.menu.Browse(profile)
	items := make([]common.MenuItem, 0, len(ranked))
	for _, r := range ranked {
		items = append(items, r.Item)
	}
	return items
}

func formatItems(items []common.MenuItem, limit int) []string {
	if len(items) > limit {
		items = items[:limit]
	}
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, common.FormatItemLine(item))
	}
	return lines
}

// followUpFor 以訊息文字的穩定雜湊挑選固定追問
func followUpFor(text string) string {
	h := fnv.New32a()
	h.Write([]byte(text))
	return demoFollowUps[int(h.Sum32())%len(demoFollowUps)]
}

func containsAny(s string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
