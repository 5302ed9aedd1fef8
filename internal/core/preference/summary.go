package preference

import (
	"fmt"
	"strings"

	"dining-assistant/internal/pkg/common"
)

// 摘要中不喜歡食材的最大列出數
const summaryDislikeLimit = 3

// Summarize 以固定順序組合偏好的文字摘要
// 集合欄位僅在有值時呈現；價格區間與辣度永遠呈現；
// 不喜歡的食材最多列出前三項，超過時以省略號標記。
// 摘要同時作為開場助理訊息與傳給遠端服務的對話脈絡
func Summarize(profile common.PreferenceProfile) string {
	var sb strings.Builder
	sb.WriteString("Here's a summary of your preferences.")

	if len(profile.DietaryRestrictions) > 0 {
		sb.WriteString(" Dietary restrictions: ")
		sb.WriteString(common.JoinList(profile.DietaryRestrictions))
		sb.WriteString(".")
	}
	if len(profile.Allergies) > 0 {
		sb.WriteString(" Allergies: ")
		sb.WriteString(common.JoinList(profile.Allergies))
		sb.WriteString(".")
	}
	if len(profile.FavoriteCuisines) > 0 {
		sb.WriteString(" Favorite cuisines: ")
		sb.WriteString(common.JoinList(profile.FavoriteCuisines))
		sb.WriteString(".")
	}

	sb.WriteString(" Price range: ")
	sb.WriteString(common.FormatPriceRange(profile.PriceRange))
	sb.WriteString(".")

	spice := common.ClampInt(profile.SpicePreference, common.SpiceLevelMin, common.SpiceLevelMax)
	sb.WriteString(fmt.Sprintf(" Spice level: up to %d/%d.", spice, common.SpiceLevelMax))

	if len(profile.DislikedIngredients) > 0 {
		disliked := profile.DislikedIngredients
		ellipsis := ""
		if len(disliked) > summaryDislikeLimit {
			disliked = disliked[:summaryDislikeLimit]
			ellipsis = ", ..."
		}
		sb.WriteString(" Avoiding: ")
		sb.WriteString(common.JoinList(disliked))
		sb.WriteString(ellipsis)
		sb.WriteString(".")
	}

	return sb.String()
}
