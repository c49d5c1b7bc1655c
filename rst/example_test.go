package rst_test

import (
	"fmt"

	"github.com/jcorbin/moin2rst/rst"
)

func Example() {
	f := rst.New()
	show := func(call, out string) { fmt.Printf("%s %q %v\n", call, out, f) }

	show("StartDocument", f.StartDocument("FrontPage", []string{"#acl All:read"}))
	show("StartContent", f.StartContent())
	show("BulletList", f.BulletList(true))
	show("ListItem", f.ListItem(true, false))
	show("Strong", f.Strong(true))
	show("Text", f.Text("bold"))
	show("Strong", f.Strong(false))
	show("Text", f.Text(" move"))
	show("ListItem", f.ListItem(false, false))
	show("BulletList", f.BulletList(false))
	show("EndContent", f.EndContent())
	show("EndDocument", f.EndDocument())

	// Output:
	// StartDocument "#format rst\n#acl All:read\n\n" indent=0
	// StartContent "" indent=0
	// BulletList "" indent=0 lists=BulletList
	// ListItem "*" indent=2 lists=BulletList
	// Strong "" indent=2 collectors=1 styles=1 lists=BulletList
	// Text "" indent=2 collectors=1 styles=1 lists=BulletList
	// Strong " **bold**" indent=2 lists=BulletList
	// Text " move" indent=2 lists=BulletList
	// ListItem "\n\n" indent=0 lists=BulletList
	// BulletList "" indent=0
	// EndContent "" indent=0
	// EndDocument "" indent=0
}

func ExampleFormatter_EndContent() {
	f := rst.New()
	out := f.Paragraph(true)
	out += f.Text("see ")
	out += f.URL(true, "http://moinmo.in/")
	out += f.Text("MoinMoin")
	out += f.URL(false, "")
	out += f.Text(" ")
	out += f.MacroArgs("FootNote", "a wiki engine")
	out += f.Paragraph(false)
	out += f.EndContent()
	fmt.Print(out)

	// Output:
	// see MoinMoin_ [1]_
	//
	// .. ############################################################################
	//
	// .. [1] a wiki engine
	//
	// .. _MoinMoin: http://moinmo.in/
}
