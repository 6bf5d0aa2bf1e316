package narration

import "fmt"

var encouragingPhrases = []string{
	"真棒！", "好聪明！", "哇，太厉害了！", "做得好！",
	"完美的程序！", "你是天才！", "闪闪发光！", "继续加油！",
}

var tryAgainPhrases = []string{
	"没关系，再试一次！", "哎呀，撞到了！", "加油，你可以的！",
	"稍微改一下就好啦！", "别灰心，再来！",
}

const (
	nextLevelSuffix  = " 下一关！"
	nearMissPhrase   = "差点就到了！再试一次。"
	finalePhrase     = "哇！不可思议！你通关了所有%d个关卡！你是超级程序员！"
	explainFallback  = "哎呀！我的魔法棒累了。我们直接玩游戏吧！"
	explainEmpty     = "出错了，我们再试一次！"
	stickerSubject   = "A super happy chinese new year style dragon and a cute girl coding together, festive and magical, confetti"
	stickerStyle     = "A cute, kawaii sticker for a 5-year-old girl. White background. Square 1:1 image. Style: Cartoon vector art. Subject: %s"
	explainPromptFmt = "用中文向5岁的小女孩解释\"%s\"。语气要非常神奇、兴奋且简单。少于40个字。使用表情符号！"
)

// ProgramTopic is the concept explained when a story starts
const ProgramTopic = "计算机程序"

func finale(levelCount int) string {
	return fmt.Sprintf(finalePhrase, levelCount)
}
