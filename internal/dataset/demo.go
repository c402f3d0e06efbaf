package dataset

// Demo returns the sample dataset a fresh project starts with.
func Demo() *Dataset {
	return &Dataset{
		Layers: []Layer{
			{ID: "L1_SETUP", Name: "开场准备", Sequence: 1, Worldview: DefaultWorldview},
			{ID: "L2_CORE", Name: "核心解谜", Sequence: 2, Worldview: DefaultWorldview},
			{ID: "L3_ENDING", Name: "结局判定", Sequence: 3, Worldview: DefaultWorldview},
		},
		Scenes: []Scene{
			{ID: "S001", Name: "废弃实验室", Description: "充满危险化学品的地下设施", Tags: []string{"恐怖", "解谜", "室内"}, Worldview: DefaultWorldview},
			{ID: "S002", Name: "中央公园", Description: "阳光明媚但暗藏玄机的公园", Tags: []string{"开放", "日间", "NPC"}, Worldview: DefaultWorldview},
			{ID: "S003", Name: "皇庭南卫星城办公室", Description: "月王执政下的行政中心", Tags: []string{"政治", "室内"}, Worldview: "月王故事"},
			{ID: "S004", Name: "大学体育馆更衣室", Description: "训练结束后的更衣室", Tags: []string{"校园", "室内"}, Worldview: "王勇和体育生故事"},
		},
		Plays: []Play{
			{ID: "P001", Name: "搜寻物资", Description: "在房间角落寻找有用的道具", TriggerCondition: "自动", Result: "获得手电筒", LayerID: "L1_SETUP", Tags: []string{"室内", "解谜"}, Worldview: DefaultWorldview},
			{ID: "P002", Name: "破解密码锁", Description: "输入四位数字密码打开保险箱", TriggerCondition: "持有线索", Result: "获得钥匙", LayerID: "L2_CORE", Tags: []string{"解谜"}, Worldview: DefaultWorldview},
			{ID: "P003", Name: "遭遇野狗", Description: "一只饥饿的野狗挡住了去路", TriggerCondition: "自动", Result: "受到惊吓", LayerID: "L2_CORE", Tags: []string{"开放", "恐怖"}, Worldview: DefaultWorldview},
			{ID: "P004", Name: "逃出生天", Description: "找到出口离开此地", TriggerCondition: "持有钥匙", Result: "游戏胜利", LayerID: "L3_ENDING", Tags: []string{"通用"}, Worldview: DefaultWorldview},
		},
		Commands: []Command{
			{ID: "C001", Name: "突发地震", Description: "地面剧烈摇晃，部分通道被封锁", Probability: 30, ScopeType: ScopeLayer, TargetIDs: "L2_CORE", Worldview: DefaultWorldview},
			{ID: "C002", Name: "NPC提供线索", Description: "路过的老人告诉你一个秘密", Probability: 50, ScopeType: ScopeScene, TargetIDs: "S002", Worldview: DefaultWorldview},
			{ID: "C003", Name: "天气突变", Description: "突然下起了暴雨", Probability: 10, ScopeType: ScopeGlobal, TargetIDs: "", Worldview: DefaultWorldview},
		},
	}
}
