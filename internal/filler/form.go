package filler

import "jobfill/internal/settings"

// Descriptor binds one page field to a stored setting.
// Locator is a CSS selector; comma-joined alternatives match the first
// element in document order.
type Descriptor struct {
	Locator  string
	Section  string
	Key      string
	Prompt   string
	Required bool
}

// Group is a titled list of descriptors filled together.
type Group struct {
	Title  string
	Fields []Descriptor
}

// Descriptors flattens groups in order.
func Descriptors(groups []Group) []Descriptor {
	var out []Descriptor
	for _, g := range groups {
		out = append(out, g.Fields...)
	}
	return out
}

// DefaultForm returns the field table for the BOSS Zhipin resume editor.
// Selectors match either the form field name or its Chinese placeholder.
func DefaultForm() []Group {
	return []Group{
		{
			Title: "Personal info",
			Fields: []Descriptor{
				{
					Locator:  `input[name="name"], input[placeholder*="姓名"], input[placeholder*="真实姓名"]`,
					Section:  settings.SectionPersonal,
					Key:      "name",
					Prompt:   "[personal] Enter your full name:",
					Required: true,
				},
				{
					Locator:  `input[name="mobile"], input[placeholder*="手机"], input[placeholder*="电话"]`,
					Section:  settings.SectionPersonal,
					Key:      "phone",
					Prompt:   "[personal] Enter your mobile number:",
					Required: true,
				},
				{
					Locator:  `input[name="email"], input[placeholder*="邮箱"], input[type="email"]`,
					Section:  settings.SectionPersonal,
					Key:      "email",
					Prompt:   "[personal] Enter your email address:",
					Required: true,
				},
				{
					Locator:  `input[name="age"], input[placeholder*="年龄"]`,
					Section:  settings.SectionPersonal,
					Key:      "age",
					Prompt:   "[personal] Enter your age:",
					Required: true,
				},
				{
					Locator:  `input[name="address"], input[placeholder*="地址"], input[placeholder*="现居"]`,
					Section:  settings.SectionPersonal,
					Key:      "address",
					Prompt:   "[personal] Enter your current address:",
					Required: true,
				},
			},
		},
		{
			Title: "Work info",
			Fields: []Descriptor{
				{
					Locator:  `input[name="expectedSalary"], input[placeholder*="期望薪资"], input[placeholder*="薪资"]`,
					Section:  settings.SectionWork,
					Key:      "expected_salary",
					Prompt:   "[work] Enter your expected salary (e.g. 15k-25k):",
					Required: true,
				},
				{
					Locator:  `input[name="jobTitle"], input[placeholder*="职位"], input[placeholder*="岗位"]`,
					Section:  settings.SectionWork,
					Key:      "desired_position",
					Prompt:   "[work] Enter your desired position:",
					Required: true,
				},
				{
					Locator:  `input[name="workExperience"], input[placeholder*="工作经验"], input[placeholder*="经验"]`,
					Section:  settings.SectionWork,
					Key:      "work_experience",
					Prompt:   "[work] Enter your work experience (e.g. 3 years):",
					Required: true,
				},
				{
					Locator:  `textarea[name="selfIntroduction"], textarea[placeholder*="自我介绍"], textarea[placeholder*="个人描述"]`,
					Section:  settings.SectionWork,
					Key:      "self_introduction",
					Prompt:   "[work] Enter a short self introduction:",
					Required: true,
				},
			},
		},
		{
			Title: "Education",
			Fields: []Descriptor{
				{
					Locator:  `input[name="school"], input[placeholder*="学校"], input[placeholder*="院校"]`,
					Section:  settings.SectionEducation,
					Key:      "school_name",
					Prompt:   "[education] Enter the school you graduated from:",
					Required: true,
				},
				{
					Locator:  `input[name="major"], input[placeholder*="专业"]`,
					Section:  settings.SectionEducation,
					Key:      "major",
					Prompt:   "[education] Enter your major:",
					Required: true,
				},
				{
					Locator:  `input[name="degree"], input[placeholder*="学历"]`,
					Section:  settings.SectionEducation,
					Key:      "degree",
					Prompt:   "[education] Enter your degree (e.g. 本科/硕士/博士):",
					Required: true,
				},
				{
					Locator:  `input[name="graduationYear"], input[placeholder*="毕业时间"], input[placeholder*="毕业年份"]`,
					Section:  settings.SectionEducation,
					Key:      "graduation_year",
					Prompt:   "[education] Enter your graduation year (e.g. 2020):",
					Required: true,
				},
			},
		},
		{
			Title: "Other info",
			Fields: []Descriptor{
				{
					Locator: `textarea[name="projectExperience"], textarea[placeholder*="项目经验"]`,
					Section: settings.SectionOthers,
					Key:     "project_experience",
					Prompt:  "[other] Enter your project experience:",
				},
				{
					Locator: `textarea[name="skills"], textarea[placeholder*="技能"], textarea[placeholder*="专业技能"]`,
					Section: settings.SectionOthers,
					Key:     "professional_skills",
					Prompt:  "[other] Enter your professional skills:",
				},
				{
					Locator: `input[name="github"], input[placeholder*="GitHub"], input[placeholder*="github"]`,
					Section: settings.SectionOthers,
					Key:     "github_url",
					Prompt:  "[other] Enter your GitHub URL:",
				},
			},
		},
	}
}
